package eastmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"fox_trade/internal/feature/kline/domain/entity"
	"fox_trade/internal/feature/kline/usecase"
	"fox_trade/internal/platform/externalapi/eastmoney/dto"
	"fox_trade/internal/shared/ratelimiter"
)

// ErrMissingData is returned when the response body has no "data" key at all.
// An explicit "data": null is not an error; it means the secid is unknown upstream.
var ErrMissingData = errors.New("eastmoney: response has no data field")

// ErrMissingKLines is returned when "data" is present but carries no klines array.
var ErrMissingKLines = errors.New("eastmoney: data has no klines")

// EastMoneyMarket はEastMoneyの外部APIからK線データを取得するMarketRepository実装です。
type EastMoneyMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// EastMoneyMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*EastMoneyMarket)(nil)

// NewEastMoneyMarket は指定された設定とHTTPクライアントでEastMoneyMarketを生成します。
// limiter が nil の場合は流量制限を行いません。
func NewEastMoneyMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *EastMoneyMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &EastMoneyMarket{cfg: cfg, client: client, limiter: limiter}
}

// requestURL は1回分のクエリURLを組み立てます。
func (m *EastMoneyMarket) requestURL(id entity.SecID, q entity.Query) string {
	v := url.Values{}
	v.Set("fields1", metadataFields)
	v.Set("fields2", dataFields())
	v.Set("beg", q.Date)
	v.Set("end", q.Date)
	v.Set("rtntype", returnType)
	v.Set("secid", id.String())
	v.Set("klt", q.Interval.Code())
	v.Set("fqt", q.Adjustment.Code())
	return m.cfg.BaseURL + "?" + v.Encode()
}

// GetKLines は指定したsecidでK線を1回だけ取得します。
// "data": null の場合は found=false, err=nil を返します。
func (m *EastMoneyMarket) GetKLines(ctx context.Context, id entity.SecID, q entity.Query) ([]string, bool, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.requestURL(id, q), nil)
	if err != nil {
		return nil, false, err
	}

	res, err := m.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, false, fmt.Errorf("eastmoney http %d", res.StatusCode)
	}

	var body dto.KLineResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("eastmoney: decode response: %w", err)
	}
	if body.Data == nil {
		return nil, false, ErrMissingData
	}
	if bytes.Equal(bytes.TrimSpace(body.Data), []byte("null")) {
		return nil, false, nil
	}

	var data dto.KLineData
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return nil, false, fmt.Errorf("eastmoney: decode data: %w", err)
	}
	if data.KLines == nil {
		return nil, false, ErrMissingKLines
	}
	return *data.KLines, true, nil
}

// Package usecase はK線データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"fox_trade/internal/feature/kline/domain"
	"fox_trade/internal/feature/kline/domain/entity"
)

const tracerName = "fox_trade/internal/feature/kline/usecase"

// Upstream request outcomes reported to the Recorder.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// MarketRepository はK線データを取得する外部APIのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetKLines issues exactly one upstream request for id.
	// found is false when the provider does not recognise id.
	GetKLines(ctx context.Context, id entity.SecID, q entity.Query) (lines []string, found bool, err error)
}

// Recorder receives fetch telemetry. Implementations must be safe for concurrent use.
type Recorder interface {
	UpstreamRequest(outcome string)
	SecIDFallback(recovered bool)
}

type nopRecorder struct{}

func (nopRecorder) UpstreamRequest(string) {}
func (nopRecorder) SecIDFallback(bool)     {}

// FetchUsecase はsecidの導出とフォールバック付きのK線取得を行います。
// 状態を持たないため、異なる銘柄や日付に対して並行に呼び出せます。
type FetchUsecase struct {
	market   MarketRepository
	recorder Recorder
}

// NewFetchUsecase は新しい FetchUsecase を作成します。recorder は nil でも構いません。
func NewFetchUsecase(market MarketRepository, recorder Recorder) *FetchUsecase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &FetchUsecase{market: market, recorder: recorder}
}

// Fetch は推定した取引所でK線を取得し、データが無ければ取引所を反転して1回だけ再取得します。
// 両方とも見つからない場合は Found=false の結果を返します（エラーではありません）。
// 通信・デコードのエラーは再試行せずにそのまま返します。
func (fu *FetchUsecase) Fetch(ctx context.Context, q entity.Query) (entity.FetchResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "kline.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("kline.code", string(q.Code)), attribute.String("kline.date", q.Date))

	id := entity.Resolve(q.Code)

	lines, found, err := fu.get(ctx, id, q)
	if err != nil {
		return entity.FetchResult{}, err
	}
	if found {
		return entity.FetchResult{Code: q.Code, Found: true, SecID: id, Records: lines}, nil
	}

	// 先頭数字だけでは判別できない銘柄のため、取引所を反転して再試行
	flipped := id.Flip()
	lines, found, err = fu.get(ctx, flipped, q)
	if err != nil {
		return entity.FetchResult{}, err
	}
	fu.recorder.SecIDFallback(found)
	if found {
		slog.Info("secid resolved by fallback", "code", q.Code, "guess", id.String(), "secid", flipped.String())
		return entity.FetchResult{Code: q.Code, Found: true, SecID: flipped, Records: lines}, nil
	}

	slog.Warn("security code may be invalid", "code", q.Code, "tried", []string{id.String(), flipped.String()}, "date", q.Date)
	return entity.FetchResult{Code: q.Code, Found: false}, nil
}

func (fu *FetchUsecase) get(ctx context.Context, id entity.SecID, q entity.Query) ([]string, bool, error) {
	lines, found, err := fu.market.GetKLines(ctx, id, q)
	switch {
	case err != nil:
		fu.recorder.UpstreamRequest(OutcomeError)
		return nil, false, fmt.Errorf("fetch klines %s: %w", id, err)
	case found:
		fu.recorder.UpstreamRequest(OutcomeFound)
	default:
		fu.recorder.UpstreamRequest(OutcomeNotFound)
	}
	return lines, found, nil
}

// FetchDailyRecords は日足・前復権で指定日のK線レコードを取得します。
// 銘柄が見つからない場合は空のスライスを返すため、呼び出し側で空の場合を扱う必要があります。
func (fu *FetchUsecase) FetchDailyRecords(ctx context.Context, code entity.SecurityCode, date string) ([]string, error) {
	res, err := fu.Fetch(ctx, entity.NewDailyQuery(code, date))
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return []string{}, nil
	}
	return res.Records, nil
}

// FetchRecords は取得したレコードを名前付きの KLine に変換して返します。
// 銘柄が見つからない場合は domain.ErrSymbolNotFound を返します。
func (fu *FetchUsecase) FetchRecords(ctx context.Context, q entity.Query) ([]entity.KLine, error) {
	res, err := fu.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, fmt.Errorf("%w: %s", domain.ErrSymbolNotFound, q.Code)
	}

	out := make([]entity.KLine, 0, len(res.Records))
	for _, raw := range res.Records {
		k, err := entity.ParseKLine(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

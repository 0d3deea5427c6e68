// Package handler はklineフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fox_trade/internal/api"
	"fox_trade/internal/feature/kline/domain"
	"fox_trade/internal/feature/kline/domain/entity"
	"fox_trade/internal/feature/kline/transport/http/dto"
)

// KLineUsecase はK線取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type KLineUsecase interface {
	FetchRecords(ctx context.Context, q entity.Query) ([]entity.KLine, error)
}

// KLineHandler はK線データのHTTPリクエストを処理します。
type KLineHandler struct {
	uc  KLineUsecase
	loc *time.Location
	now func() time.Time
}

// NewKLineHandler は新しい KLineHandler を生成します。loc は date 省略時の「今日」の判定に使います。
func NewKLineHandler(uc KLineUsecase, loc *time.Location) *KLineHandler {
	if loc == nil {
		loc = time.Local
	}
	return &KLineHandler{uc: uc, loc: loc, now: time.Now}
}

// GetKLinesHandler は銘柄コードと日付を受け取り、K線データをJSONで返します。
//
// エンドポイント例:
// GET /klines/:code?date=20230829&interval=daily&adjustment=forward
func (h *KLineHandler) GetKLinesHandler(c *gin.Context) {
	code := entity.SecurityCode(c.Param("code"))

	date := c.Query("date")
	if date == "" {
		date = entity.FormatDate(h.now().In(h.loc))
	} else if _, err := time.Parse(entity.DateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYYMMDD"})
		return
	}
	interval, err := entity.ParseInterval(c.Query("interval"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	adj, err := entity.ParseAdjustment(c.Query("adjustment"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	q := entity.Query{Code: code, Date: date, Interval: interval, Adjustment: adj}
	klines, err := h.uc.FetchRecords(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	// 分足は時刻まで返す
	layout := interval.RecordLayout()
	out := make([]dto.KLineResponse, 0, len(klines))
	for _, k := range klines {
		out = append(out, dto.KLineResponse{
			Date:          k.Date.Format(layout),
			Open:          k.Open,
			Close:         k.Close,
			High:          k.High,
			Low:           k.Low,
			Volume:        k.Volume,
			Turnover:      k.Turnover,
			Amplitude:     k.Amplitude,
			ChangePercent: k.ChangePercent,
			ChangeAmount:  k.ChangeAmount,
			TurnoverRate:  k.TurnoverRate,
		})
	}

	c.JSON(http.StatusOK, dto.KLinesResponse{
		Code:       string(code),
		Date:       date,
		Interval:   interval.String(),
		Adjustment: adj.String(),
		KLines:     out,
	})
}

package dto

import "github.com/shopspring/decimal"

// KLineResponse はK線1本分のレスポンスDTOです。価格は文字列の10進数で返します。
type KLineResponse struct {
	Date          string          `json:"date"`          // 日付
	Open          decimal.Decimal `json:"open"`          // 始値
	Close         decimal.Decimal `json:"close"`         // 終値
	High          decimal.Decimal `json:"high"`          // 高値
	Low           decimal.Decimal `json:"low"`           // 安値
	Volume        int64           `json:"volume"`        // 出来高
	Turnover      decimal.Decimal `json:"turnover"`      // 売買代金
	Amplitude     decimal.Decimal `json:"amplitude"`     // 振幅
	ChangePercent decimal.Decimal `json:"change_pct"`    // 騰落率
	ChangeAmount  decimal.Decimal `json:"change_amount"` // 騰落額
	TurnoverRate  decimal.Decimal `json:"turnover_rate"` // 回転率
}

// KLinesResponse は GET /klines/:code のレスポンスDTOです。
type KLinesResponse struct {
	Code       string          `json:"code"`
	Date       string          `json:"date"`
	Interval   string          `json:"interval"`
	Adjustment string          `json:"adjustment"`
	KLines     []KLineResponse `json:"klines"`
}

package dto

import "time"

// TriggerRequest は POST /runs のリクエストDTOです。未指定の項目は設定ファイルの値を使います。
type TriggerRequest struct {
	Symbol     string `json:"symbol"`
	Date       string `json:"date" binding:"omitempty,len=8,numeric"`
	Interval   string `json:"interval"`
	Adjustment string `json:"adjustment"`
}

// RunResponse は実行履歴のレスポンスDTOです。
type RunResponse struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	AsOfDate   string     `json:"as_of_date"`
	Status     string     `json:"status"`
	Attempts   int        `json:"attempts"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ReportResponse は GET /runs/:id/report のレスポンスDTOです。
type ReportResponse struct {
	RunID  string            `json:"run_id"`
	Values map[string]string `json:"values"`
}

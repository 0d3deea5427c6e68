// Package handler はdailyreportフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fox_trade/internal/api"
	"fox_trade/internal/feature/dailyreport/domain/entity"
	"fox_trade/internal/feature/dailyreport/transport/http/dto"
	"fox_trade/internal/feature/dailyreport/usecase"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

const defaultListLimit = 20

// RunUsecase は実行のトリガーと履歴参照のインターフェースです。
// Start は実行を記録した時点で戻り、ジョブ本体はバックグラウンドで続行します。
type RunUsecase interface {
	Start(ctx context.Context, job entity.JobConfig) (entity.Run, error)
	Get(ctx context.Context, id string) (*entity.Run, error)
	List(ctx context.Context, limit int) ([]entity.Run, error)
}

// ReportReader は受け渡し済みの値を読み出します。
type ReportReader interface {
	Values(ctx context.Context, runID string) (map[string]string, error)
}

type RunHandler struct {
	runs   RunUsecase
	report ReportReader
	job    entity.JobConfig
}

// NewRunHandler は新しい RunHandler を生成します。job は POST /runs の既定値です。
func NewRunHandler(runs RunUsecase, report ReportReader, job entity.JobConfig) *RunHandler {
	return &RunHandler{runs: runs, report: report, job: job}
}

// Trigger は設定済みのジョブを開始し、202 と実行中の履歴を返します。ボディで銘柄や日付を上書きできます。
// 結果は GET /runs/:id で確認します。
//
// POST /runs
func (h *RunHandler) Trigger(c *gin.Context) {
	var req dto.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	job := h.job
	if req.Symbol != "" {
		job.Symbol = klineentity.SecurityCode(req.Symbol)
	}
	if req.Date != "" {
		job.AsOfDate = req.Date
	}
	if req.Interval != "" {
		interval, err := klineentity.ParseInterval(req.Interval)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		job.Interval = interval
	}
	if req.Adjustment != "" {
		adj, err := klineentity.ParseAdjustment(req.Adjustment)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		job.Adjustment = adj
	}

	run, err := h.runs.Start(c.Request.Context(), job)
	switch {
	case errors.Is(err, usecase.ErrRunInProgress):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
	default:
		c.Header("Location", "/runs/"+run.ID)
		c.JSON(http.StatusAccepted, toResponse(run))
	}
}

// List は直近の実行履歴を新しい順に返します。
//
// GET /runs?limit=20
func (h *RunHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "limit must be a positive integer"})
		return
	}

	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, toResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// Get は1件の実行履歴を返します。
//
// GET /runs/:id
func (h *RunHandler) Get(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(*run))
}

// Report は実行で受け渡された値をそのまま返します。
//
// GET /runs/:id/report
func (h *RunHandler) Report(c *gin.Context) {
	id := c.Param("id")
	values, err := h.report.Values(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrHandoffNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ReportResponse{RunID: id, Values: values})
}

func toResponse(r entity.Run) dto.RunResponse {
	return dto.RunResponse{
		ID:         r.ID,
		Symbol:     r.Symbol,
		AsOfDate:   r.AsOfDate,
		Status:     string(r.Status),
		Attempts:   r.Attempts,
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

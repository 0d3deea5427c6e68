package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	"fox_trade/internal/feature/dailyreport/transport/handler"
	"fox_trade/internal/feature/dailyreport/usecase"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

// mockRunUsecase はRunUsecaseインターフェースのモック実装です。
type mockRunUsecase struct {
	StartFunc func(ctx context.Context, job entity.JobConfig) (entity.Run, error)
	GetFunc   func(ctx context.Context, id string) (*entity.Run, error)
	ListFunc  func(ctx context.Context, limit int) ([]entity.Run, error)
}

func (m *mockRunUsecase) Start(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
	return m.StartFunc(ctx, job)
}

func (m *mockRunUsecase) Get(ctx context.Context, id string) (*entity.Run, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockRunUsecase) List(ctx context.Context, limit int) ([]entity.Run, error) {
	return m.ListFunc(ctx, limit)
}

type mockReportReader struct {
	ValuesFunc func(ctx context.Context, runID string) (map[string]string, error)
}

func (m *mockReportReader) Values(ctx context.Context, runID string) (map[string]string, error) {
	return m.ValuesFunc(ctx, runID)
}

var (
	started  = time.Date(2023, 8, 29, 8, 0, 0, 0, time.UTC)
	finished = started.Add(2 * time.Second)
	baseJob  = entity.JobConfig{Symbol: "002707", Interval: klineentity.IntervalDaily, Adjustment: klineentity.AdjustForward}
)

func succeededRun(job entity.JobConfig) entity.Run {
	return entity.Run{
		ID: "run-1", Symbol: string(job.Symbol), AsOfDate: job.AsOfDate,
		Status: entity.RunStatusSucceeded, Attempts: 1, StartedAt: started, FinishedAt: &finished,
	}
}

func runningRun(job entity.JobConfig) entity.Run {
	return entity.Run{
		ID: "run-1", Symbol: string(job.Symbol), AsOfDate: job.AsOfDate,
		Status: entity.RunStatusRunning, StartedAt: started,
	}
}

func setupRouter(runs *mockRunUsecase, report *mockReportReader) *gin.Engine {
	h := handler.NewRunHandler(runs, report, baseJob)
	r := gin.New()
	r.POST("/runs", h.Trigger)
	r.GET("/runs", h.List)
	r.GET("/runs/:id", h.Get)
	r.GET("/runs/:id/report", h.Report)
	return r
}

func TestRunHandler_Trigger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		startFunc      func(ctx context.Context, job entity.JobConfig) (entity.Run, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "accepted: configured job without body",
			startFunc: func(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
				assert.Equal(t, baseJob, job)
				return runningRun(job), nil
			},
			expectedStatus: http.StatusAccepted,
			expectedBody: `{"id":"run-1","symbol":"002707","as_of_date":"","status":"running","attempts":0,
				"started_at":"2023-08-29T08:00:00Z"}`,
		},
		{
			name: "accepted: body overrides symbol, date and interval",
			body: `{"symbol":"600519","date":"20230829","interval":"weekly","adjustment":"backward"}`,
			startFunc: func(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
				assert.Equal(t, entity.JobConfig{
					Symbol: "600519", AsOfDate: "20230829",
					Interval: klineentity.IntervalWeekly, Adjustment: klineentity.AdjustBackward,
				}, job)
				return runningRun(job), nil
			},
			expectedStatus: http.StatusAccepted,
			expectedBody: `{"id":"run-1","symbol":"600519","as_of_date":"20230829","status":"running","attempts":0,
				"started_at":"2023-08-29T08:00:00Z"}`,
		},
		{
			name:           "error: malformed JSON",
			body:           `{"symbol":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: malformed date",
			body:           `{"date":"2023-08-29"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name:           "error: unknown interval",
			body:           `{"interval":"hourly"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid interval: \"hourly\""}`,
		},
		{
			name: "error: another run in progress",
			startFunc: func(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
				return entity.Run{}, usecase.ErrRunInProgress
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"error":"a run is already in progress"}`,
		},
		{
			name: "error: run could not be recorded",
			startFunc: func(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
				return entity.Run{}, errors.New("record run: db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"record run: db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := &mockRunUsecase{StartFunc: tt.startFunc}
			if runs.StartFunc == nil {
				runs.StartFunc = func(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
					t.Fatal("runner must not be called")
					return entity.Run{}, nil
				}
			}
			router := setupRouter(runs, &mockReportReader{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			if tt.expectedStatus == http.StatusAccepted {
				assert.Equal(t, "/runs/run-1", w.Header().Get("Location"))
			}
		})
	}
}

func TestRunHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		listFunc       func(ctx context.Context, limit int) ([]entity.Run, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: default limit",
			url:  "/runs",
			listFunc: func(ctx context.Context, limit int) ([]entity.Run, error) {
				assert.Equal(t, 20, limit)
				return []entity.Run{succeededRun(baseJob)}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":"run-1","symbol":"002707","as_of_date":"","status":"succeeded","attempts":1,
				"started_at":"2023-08-29T08:00:00Z","finished_at":"2023-08-29T08:00:02Z"}]`,
		},
		{
			name: "success: empty history",
			url:  "/runs?limit=5",
			listFunc: func(ctx context.Context, limit int) ([]entity.Run, error) {
				assert.Equal(t, 5, limit)
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "error: invalid limit",
			url:            "/runs?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"limit must be a positive integer"}`,
		},
		{
			name: "error: repository failure",
			url:  "/runs",
			listFunc: func(ctx context.Context, limit int) ([]entity.Run, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockRunUsecase{ListFunc: tt.listFunc}, &mockReportReader{})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestRunHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	runs := &mockRunUsecase{GetFunc: func(ctx context.Context, id string) (*entity.Run, error) {
		if id != "run-1" {
			return nil, usecase.ErrRunNotFound
		}
		r := succeededRun(baseJob)
		return &r, nil
	}}
	router := setupRouter(runs, &mockReportReader{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/run-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"succeeded"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"run not found"}`, w.Body.String())
}

func TestRunHandler_Report(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		valuesFunc     func(ctx context.Context, runID string) (map[string]string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: handed-off values",
			url:  "/runs/run-1/report",
			valuesFunc: func(ctx context.Context, runID string) (map[string]string, error) {
				assert.Equal(t, "run-1", runID)
				return map[string]string{"date": "2023-08-29", "close": "10.8"}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"run_id":"run-1","values":{"date":"2023-08-29","close":"10.8"}}`,
		},
		{
			name: "error: nothing handed off",
			url:  "/runs/run-2/report",
			valuesFunc: func(ctx context.Context, runID string) (map[string]string, error) {
				return nil, usecase.ErrHandoffNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"handoff values not found"}`,
		},
		{
			name: "error: store failure",
			url:  "/runs/run-3/report",
			valuesFunc: func(ctx context.Context, runID string) (map[string]string, error) {
				return nil, errors.New("redis down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"redis down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&mockRunUsecase{}, &mockReportReader{ValuesFunc: tt.valuesFunc})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

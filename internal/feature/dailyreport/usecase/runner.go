package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
)

const (
	// DefaultRetries is the number of extra attempts after the first failure of a step.
	DefaultRetries = 2
	// DefaultRetryDelay is the wait between attempts.
	DefaultRetryDelay = 5 * time.Minute
)

// RunRepository は実行履歴の永続化インターフェイスです。
type RunRepository interface {
	Create(ctx context.Context, run *entity.Run) error
	Update(ctx context.Context, run *entity.Run) error
	// FindByID returns ErrRunNotFound when no run has the given ID.
	FindByID(ctx context.Context, id string) (*entity.Run, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Run, error)
}

// RunRecorder receives run telemetry.
type RunRecorder interface {
	RunFinished(status entity.RunStatus, elapsed time.Duration)
}

type nopRunRecorder struct{}

func (nopRunRecorder) RunFinished(entity.RunStatus, time.Duration) {}

// Extractor と Reporter は Runner が順に実行する2つのステップです。
type Extractor interface {
	Extract(ctx context.Context, runID string, q klineentity.Query) error
}

type Reporter interface {
	Report(ctx context.Context, runID string) error
}

// RunnerConfig controls retries and the time zone used to resolve "today".
type RunnerConfig struct {
	Retries    int
	RetryDelay time.Duration
	Location   *time.Location
}

// Runner executes extract then report for one JobConfig, recording the run.
// Only one run executes at a time; a concurrent trigger gets ErrRunInProgress.
// Run blocks until the run finishes; Start returns once the run is recorded.
type Runner struct {
	extract  Extractor
	report   Reporter
	runs     RunRepository
	recorder RunRecorder
	cfg      RunnerConfig

	mu  sync.Mutex
	wg  sync.WaitGroup
	now func() time.Time
}

// NewRunner は新しい Runner を作成します。recorder は nil でも構いません。
func NewRunner(extract Extractor, report Reporter, runs RunRepository, recorder RunRecorder, cfg RunnerConfig) *Runner {
	if recorder == nil {
		recorder = nopRunRecorder{}
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Runner{
		extract:  extract,
		report:   report,
		runs:     runs,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run executes the job once. The returned Run reflects the final recorded state;
// the error is the last step error when the run failed.
func (r *Runner) Run(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
	run, q, err := r.begin(ctx, job)
	if err != nil {
		return run, err
	}
	defer r.mu.Unlock()
	return r.execute(ctx, run, q)
}

// Start records a new run and executes it in the background, detached from ctx's
// cancellation. The returned Run is in the running state; poll Get for the outcome.
func (r *Runner) Start(ctx context.Context, job entity.JobConfig) (entity.Run, error) {
	run, q, err := r.begin(ctx, job)
	if err != nil {
		return run, err
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.mu.Unlock()
		_, _ = r.execute(context.WithoutCancel(ctx), run, q)
	}()
	return run, nil
}

// Wait blocks until every run started by Start has finished or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// begin takes the run lock and records the run. On success the caller owns the lock.
func (r *Runner) begin(ctx context.Context, job entity.JobConfig) (entity.Run, klineentity.Query, error) {
	if !r.mu.TryLock() {
		return entity.Run{}, klineentity.Query{}, ErrRunInProgress
	}

	started := r.now()
	q := job.Query(started, r.cfg.Location)
	run := entity.Run{
		ID:        uuid.NewString(),
		Symbol:    string(q.Code),
		AsOfDate:  q.Date,
		Status:    entity.RunStatusRunning,
		StartedAt: started,
	}
	if err := r.runs.Create(ctx, &run); err != nil {
		r.mu.Unlock()
		return run, q, fmt.Errorf("record run: %w", err)
	}
	slog.Info("run started", "run_id", run.ID, "symbol", run.Symbol, "date", run.AsOfDate)
	return run, q, nil
}

func (r *Runner) execute(ctx context.Context, run entity.Run, q klineentity.Query) (entity.Run, error) {
	err := r.retry(ctx, &run, "extract", func(ctx context.Context) error {
		return r.extract.Extract(ctx, run.ID, q)
	})
	if err == nil {
		err = r.retry(ctx, nil, "report", func(ctx context.Context) error {
			return r.report.Report(ctx, run.ID)
		})
	}

	finished := r.now()
	run.FinishedAt = &finished
	run.Status = entity.RunStatusSucceeded
	if err != nil {
		run.Status = entity.RunStatusFailed
		run.Error = err.Error()
	}
	// 呼び出し元のctxがキャンセルされていても結果は記録する
	if uerr := r.runs.Update(context.WithoutCancel(ctx), &run); uerr != nil {
		slog.Error("failed to record run result", "run_id", run.ID, "error", uerr)
	}
	r.recorder.RunFinished(run.Status, finished.Sub(run.StartedAt))

	if err != nil {
		slog.Error("run failed", "run_id", run.ID, "attempts", run.Attempts, "error", err)
		return run, err
	}
	slog.Info("run succeeded", "run_id", run.ID, "attempts", run.Attempts)
	return run, nil
}

// retry runs fn up to Retries+1 times. When run is non-nil its Attempts field tracks the count.
func (r *Runner) retry(ctx context.Context, run *entity.Run, step string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.cfg.Retries+1; attempt++ {
		if run != nil {
			run.Attempts = attempt
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt > r.cfg.Retries {
			break
		}
		slog.Warn("step failed, retrying", "step", step, "attempt", attempt, "delay", r.cfg.RetryDelay, "error", err)
		if werr := sleep(ctx, r.cfg.RetryDelay); werr != nil {
			return fmt.Errorf("%s: %w (last error: %v)", step, werr, err)
		}
	}
	return fmt.Errorf("%s: %w", step, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Get returns a recorded run.
func (r *Runner) Get(ctx context.Context, id string) (*entity.Run, error) {
	return r.runs.FindByID(ctx, id)
}

// List returns the most recent runs, newest first.
func (r *Runner) List(ctx context.Context, limit int) ([]entity.Run, error) {
	return r.runs.ListRecent(ctx, limit)
}

// Package scheduler は cron 式でジョブを定期実行します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. The context is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler は robfig/cron のラッパーで、指定タイムゾーンで式を評価します。
// 前回の実行が終わっていない場合、その回はスキップされます。
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler evaluating standard 5-field expressions (and descriptors such as
// "@every 1h") in loc.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under spec. name is only used for logging.
func (s *Scheduler) Add(spec, name string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		started := time.Now()
		slog.Info("scheduled job started", "job", name)
		if err := job(s.ctx); err != nil {
			slog.Error("scheduled job failed", "job", name, "elapsed", time.Since(started), "error", err)
			return
		}
		slog.Info("scheduled job finished", "job", name, "elapsed", time.Since(started))
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// Next returns the next activation time of the entry, zero if unknown or not started.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels running jobs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	s.cancel()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fox_trade/internal/app/config"
	"fox_trade/internal/app/di"
	"fox_trade/internal/feature/dailyreport/usecase"
	"fox_trade/internal/platform/logging"
	"fox_trade/internal/platform/scheduler"
	"fox_trade/internal/platform/tracing"
)

func main() {
	// .envを読み込む (LOG_* を反映するためロガー設定より先に読む)
	envErr := godotenv.Load(".env")
	logCloser := logging.Setup(os.Stderr)

	if envErr != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Setup(tracing.LoadConfig(), os.Stderr)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// レポートは標準出力へ
	c, err := di.NewContainer(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if os.Getenv("RUN_ONCE") == "true" {
		if _, err := c.Runner.Run(ctx, c.Job); err != nil {
			code = 1
		}
	} else {
		code = schedule(ctx, c)
	}

	stop()
	if err := c.Close(); err != nil {
		slog.Error("failed to close resources", "error", err)
	}
	if err := shutdownTracing(context.Background()); err != nil {
		slog.Error("failed to flush traces", "error", err)
	}
	// os.Exit は defer を実行しないため明示的に閉じる
	_ = logCloser.Close()
	os.Exit(code)
}

func schedule(ctx context.Context, c *di.Container) int {
	s := scheduler.New(c.Location)
	id, err := s.Add(c.Config.Job.Schedule, "daily-report", func(ctx context.Context) error {
		_, err := c.Runner.Run(ctx, c.Job)
		if errors.Is(err, usecase.ErrRunInProgress) {
			slog.Warn("previous run still in progress; skipped")
			return nil
		}
		return err
	})
	if err != nil {
		slog.Error("failed to schedule job", "error", err)
		return 1
	}

	s.Start()
	slog.Info("scheduler started", "schedule", c.Config.Job.Schedule, "timezone", c.Location.String(),
		"symbol", c.Job.Symbol, "next", s.Next(id))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.GracefulTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		slog.Warn("scheduler did not stop in time", "error", err)
	}
	slog.Info("scheduler stopped")
	return 0
}

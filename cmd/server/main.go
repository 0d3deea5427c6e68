package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"fox_trade/internal/app/config"
	"fox_trade/internal/app/di"
	"fox_trade/internal/app/router"
	runhandler "fox_trade/internal/feature/dailyreport/transport/handler"
	klinehandler "fox_trade/internal/feature/kline/transport/handler"
	"fox_trade/internal/platform/http/handler"
	"fox_trade/internal/platform/logging"
	"fox_trade/internal/platform/tracing"
)

func main() {
	// .envを読み込む (LOG_* を反映するためロガー設定より先に読む)
	envErr := godotenv.Load(".env")
	logCloser := logging.Setup(os.Stdout)
	defer logCloser.Close()

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
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	c, err := di.NewContainer(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Error("failed to close resources", "error", err)
		}
	}()

	// Handler
	healthH := handler.NewHealthHandler(c.HealthChecks())
	klineH := klinehandler.NewKLineHandler(c.Fetch, c.Location)
	runH := runhandler.NewRunHandler(c.Runner, c.Report, c.Job)

	// ルータ生成
	r := router.NewRouter(healthH, klineH, runH, c.Metrics.Handler())

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: otelhttp.NewHandler(r, "fox_trade")}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	// POST /runs で開始した実行の完了を待つ
	if err := c.Runner.Wait(shutdownCtx); err != nil {
		slog.Warn("background run still in progress at shutdown", "error", err)
	}
	slog.Info("server stopped")
}

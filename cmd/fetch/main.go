// Command fetch prints the raw K-line records of one security for one day.
//
//	fetch -code 002707 -date 20230829
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fox_trade/internal/app/config"
	"fox_trade/internal/app/di"
	"fox_trade/internal/feature/kline/domain/entity"
	"fox_trade/internal/feature/kline/usecase"
	"fox_trade/internal/platform/cache"
	"fox_trade/internal/platform/externalapi/eastmoney"
	"fox_trade/internal/platform/logging"
	"fox_trade/internal/platform/tracing"
)

func main() {
	code := flag.String("code", "002707", "6-digit security code")
	date := flag.String("date", "", "trading day YYYYMMDD (default: today in Asia/Shanghai)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	_ = godotenv.Load(".env")
	logCfg := logging.LoadConfig()
	logCfg.Format = "text"
	logger, logCloser := logging.New(logCfg, os.Stderr)
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Setup(tracing.LoadConfig(), os.Stderr)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	os.Exit(run(*code, *date, *timeout, func() {
		_ = shutdownTracing(context.Background())
		_ = logCloser.Close()
	}))
}

// run returns the process exit code: 0 on records, 1 on error, 2 when the code was not found.
func run(code, date string, timeout time.Duration, cleanup func()) int {
	defer cleanup()

	d := date
	if d == "" {
		d = entity.FormatDate(time.Now().In(cache.MarketLocation))
	}

	market := di.NewMarket(eastmoney.LoadConfig(), nil, config.CacheConfig{})
	uc := usecase.NewFetchUsecase(market, nil)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	records, err := uc.FetchDailyRecords(ctx, entity.SecurityCode(code), d)
	if err != nil {
		slog.Error("fetch failed", "code", code, "date", d, "error", err)
		return 1
	}
	if len(records) == 0 {
		slog.Warn("no records", "code", code, "date", d)
		return 2
	}
	for _, r := range records {
		fmt.Println(r)
	}
	return 0
}

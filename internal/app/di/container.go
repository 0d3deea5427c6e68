package di

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fox_trade/internal/app/config"
	dailyadapters "fox_trade/internal/feature/dailyreport/adapters"
	"fox_trade/internal/feature/dailyreport/domain/entity"
	dailyusecase "fox_trade/internal/feature/dailyreport/usecase"
	klineusecase "fox_trade/internal/feature/kline/usecase"
	"fox_trade/internal/platform/db"
	"fox_trade/internal/platform/externalapi/eastmoney"
	healthhandler "fox_trade/internal/platform/http/handler"
	"fox_trade/internal/platform/metrics"
	infraredis "fox_trade/internal/platform/redis"
)

// Container holds the wired application components shared by the server and the job binaries.
type Container struct {
	Config   *config.Config
	Location *time.Location
	Job      entity.JobConfig

	DB      *gorm.DB
	Redis   *redis.Client // nil when Redis is not configured or unreachable
	Metrics *metrics.Metrics

	Fetch  *klineusecase.FetchUsecase
	Report *dailyusecase.ReportUsecase
	Runner *dailyusecase.Runner
}

// NewContainer wires every component from cfg and the environment.
// The report step writes its JSON to reportOut.
func NewContainer(cfg *config.Config, reportOut io.Writer) (*Container, error) {
	loc, err := cfg.Job.Location()
	if err != nil {
		return nil, err
	}
	job, err := cfg.Job.JobConfig()
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		return nil, err
	}

	// Redis
	var rdb *redis.Client
	if rcfg := infraredis.LoadConfig(); rcfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(rcfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache and with in-memory hand-off.")
		} else {
			rdb = tmp
		}
	}

	m := metrics.New()

	// Usecase
	market := NewMarket(eastmoney.LoadConfig(), rdb, cfg.Cache)
	fetchUC := klineusecase.NewFetchUsecase(market, m)
	store := NewHandoffStore(rdb, cfg.Handoff)
	extractUC := dailyusecase.NewExtractUsecase(fetchUC, store)
	reportUC := dailyusecase.NewReportUsecase(store, reportOut)
	runner := dailyusecase.NewRunner(extractUC, reportUC, dailyadapters.NewRunRepository(gdb), m, dailyusecase.RunnerConfig{
		Retries:    cfg.Job.Retries,
		RetryDelay: cfg.Job.RetryDelay,
		Location:   loc,
	})

	return &Container{
		Config:   cfg,
		Location: loc,
		Job:      job,
		DB:       gdb,
		Redis:    rdb,
		Metrics:  m,
		Fetch:    fetchUC,
		Report:   reportUC,
		Runner:   runner,
	}, nil
}

// HealthChecks returns a ping per configured dependency.
func (c *Container) HealthChecks() map[string]healthhandler.Check {
	checks := map[string]healthhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases the DB pool and the Redis client.
func (c *Container) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

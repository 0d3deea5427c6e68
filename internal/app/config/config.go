// Package config loads the job and server settings from a YAML file with env overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"fox_trade/internal/feature/dailyreport/domain/entity"
	dailyusecase "fox_trade/internal/feature/dailyreport/usecase"
	klineentity "fox_trade/internal/feature/kline/domain/entity"
	"fox_trade/internal/platform/handoff"
)

// DefaultPath is used when JOB_CONFIG is not set.
const DefaultPath = "config/job.yaml"

type JobSection struct {
	Symbol     string        `yaml:"symbol"`
	AsOfDate   string        `yaml:"as_of_date"` // YYYYMMDD, 空なら実行日
	Interval   string        `yaml:"interval"`
	Adjustment string        `yaml:"adjustment"`
	Schedule   string        `yaml:"schedule"`
	Timezone   string        `yaml:"timezone"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
}

type HandoffConfig struct {
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"` // 0 なら次の引けまで
}

type Config struct {
	Job     JobSection    `yaml:"job"`
	Server  ServerConfig  `yaml:"server"`
	Handoff HandoffConfig `yaml:"handoff"`
	Cache   CacheConfig   `yaml:"cache"`
}

// Load reads path, falling back to defaults when the file is missing, then applies env overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PathFromEnv returns JOB_CONFIG or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv("JOB_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func defaultConfig() *Config {
	return &Config{
		Job: JobSection{
			Symbol:     "002707",
			Interval:   klineentity.IntervalDaily.String(),
			Adjustment: klineentity.AdjustForward.String(),
			Schedule:   "00 16 * * *",
			Timezone:   "Asia/Shanghai",
			Retries:    dailyusecase.DefaultRetries,
			RetryDelay: dailyusecase.DefaultRetryDelay,
		},
		Server:  ServerConfig{Addr: ":8080", GracefulTimeout: 10 * time.Second},
		Handoff: HandoffConfig{Prefix: "handoff", TTL: handoff.DefaultTTL},
		Cache:   CacheConfig{Enabled: true},
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("JOB_SYMBOL"); v != "" {
		cfg.Job.Symbol = v
	}
	if v, ok := os.LookupEnv("JOB_DATE"); ok {
		cfg.Job.AsOfDate = v
	}
	if v := os.Getenv("JOB_SCHEDULE"); v != "" {
		cfg.Job.Schedule = v
	}
	if v := os.Getenv("JOB_TIMEZONE"); v != "" {
		cfg.Job.Timezone = v
	}
	if v := os.Getenv("JOB_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOB_RETRIES: %w", err)
		}
		cfg.Job.Retries = n
	}
	if v := os.Getenv("JOB_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JOB_RETRY_DELAY: %w", err)
		}
		cfg.Job.RetryDelay = d
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}

// Validate checks the fields that are parsed later so that misconfiguration fails at startup.
func (c *Config) Validate() error {
	if c.Job.Symbol == "" {
		return fmt.Errorf("job.symbol is required")
	}
	if c.Job.AsOfDate != "" {
		if _, err := time.Parse(klineentity.DateLayout, c.Job.AsOfDate); err != nil {
			return fmt.Errorf("job.as_of_date %q: want YYYYMMDD", c.Job.AsOfDate)
		}
	}
	if c.Job.Retries < 0 {
		return fmt.Errorf("job.retries must not be negative")
	}
	if _, err := c.Job.JobConfig(); err != nil {
		return err
	}
	if _, err := c.Job.Location(); err != nil {
		return err
	}
	return nil
}

// JobConfig converts the section into the runner input.
func (j JobSection) JobConfig() (entity.JobConfig, error) {
	interval, err := klineentity.ParseInterval(j.Interval)
	if err != nil {
		return entity.JobConfig{}, fmt.Errorf("job.interval: %w", err)
	}
	adj, err := klineentity.ParseAdjustment(j.Adjustment)
	if err != nil {
		return entity.JobConfig{}, fmt.Errorf("job.adjustment: %w", err)
	}
	return entity.JobConfig{
		Symbol:     klineentity.SecurityCode(j.Symbol),
		AsOfDate:   j.AsOfDate,
		Interval:   interval,
		Adjustment: adj,
	}, nil
}

// Location loads the job time zone.
func (j JobSection) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(j.Timezone)
	if err != nil {
		return nil, fmt.Errorf("job.timezone: %w", err)
	}
	return loc, nil
}

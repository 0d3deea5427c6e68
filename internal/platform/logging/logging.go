// Package logging はslogのデフォルトロガーを構成します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
	// File が空でなければ、標準出力に加えてローテーション付きでファイルにも書き込みます
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoadConfig は LOG_LEVEL / LOG_FORMAT / LOG_FILE / LOG_MAX_SIZE_MB / LOG_MAX_BACKUPS / LOG_MAX_AGE_DAYS を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		Level:      slog.LevelInfo,
		Format:     "json",
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  100,
		MaxBackups: 7,
		MaxAgeDays: 30,
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.Level = lvl
		}
	}
	if v := strings.ToLower(os.Getenv("LOG_FORMAT")); v == "text" || v == "json" {
		cfg.Format = v
	}
	atoi(os.Getenv("LOG_MAX_SIZE_MB"), &cfg.MaxSizeMB)
	atoi(os.Getenv("LOG_MAX_BACKUPS"), &cfg.MaxBackups)
	atoi(os.Getenv("LOG_MAX_AGE_DAYS"), &cfg.MaxAgeDays)
	return cfg
}

func atoi(v string, dst *int) {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}

// New builds a logger writing to out and, when cfg.File is set, to a rotating file.
// The returned closer releases the file and is never nil.
func New(cfg Config, out io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
		out = io.MultiWriter(out, lj)
		closer = lj
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return slog.New(h), closer
}

// Setup installs the logger from the environment as slog's default.
func Setup(out io.Writer) io.Closer {
	logger, closer := New(LoadConfig(), out)
	slog.SetDefault(logger)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

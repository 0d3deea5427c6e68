// Package eastmoney provides a client for the EastMoney K-line quote API.
package eastmoney

import (
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the historical K-line endpoint.
	DefaultBaseURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for the EastMoney API client.
type Config struct {
	BaseURL           string        // full endpoint URL including the path
	Timeout           time.Duration // HTTP request timeout
	RequestsPerSecond int           // upstream request budget, 0 disables throttling
	UserAgent         string
	Accept            string
	AcceptLanguage    string
	Referer           string
}

// DefaultConfig returns the browser-like header set the provider requires.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: 5,
		UserAgent:         "Mozilla/5.0 (Windows NT 6.3; WOW64; Trident/7.0; Touch; rv:11.0) like Gecko",
		Accept:            "*/*",
		AcceptLanguage:    "zh-CN,zh;q=0.8,zh-TW;q=0.7,zh-HK;q=0.5,en-US;q=0.3,en;q=0.2",
		Referer:           "http://quote.eastmoney.com/center/gridlist.html",
	}
}

// LoadConfig loads EastMoney configuration from environment variables on top of DefaultConfig.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("EASTMONEY_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EASTMONEY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("EASTMONEY_RPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RequestsPerSecond = n
		}
	}
	return cfg
}

// Headers returns the request headers configured for the provider.
func (c Config) Headers() http.Header {
	h := http.Header{}
	if c.UserAgent != "" {
		h.Set("User-Agent", c.UserAgent)
	}
	if c.Accept != "" {
		h.Set("Accept", c.Accept)
	}
	if c.AcceptLanguage != "" {
		h.Set("Accept-Language", c.AcceptLanguage)
	}
	if c.Referer != "" {
		h.Set("Referer", c.Referer)
	}
	return h
}

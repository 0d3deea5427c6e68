// Package ratelimiter throttles calls to external APIs.
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は一定間隔あたりの呼び出し回数を制限します。
// 複数のゴルーチンから同時に利用できます。
type RateLimiter struct {
	lim *rate.Limiter
}

// NewRateLimiter は interval あたり limit 回まで許可する RateLimiter を生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{lim: rate.NewLimiter(rate.Every(every), limit)}
}

// Wait は次の呼び出しが許可されるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.lim.Reserve()
	if !r.OK() {
		return rl.lim.Wait(ctx)
	}
	d := r.Delay()
	if d == 0 {
		return nil
	}
	slog.Debug("rate limit hit, waiting", "delay", d)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

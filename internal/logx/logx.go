// Package logx provides rate-limited structured logging for hot failure
// paths. Dispatch failure reporting under the isolate policy can fire once
// per listener per event; a token-bucket limiter keeps a misbehaving
// listener from flooding the log.
package logx

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Default limiter settings, applied when a caller passes non-positive values.
const (
	DefaultRate  = 10.0
	DefaultBurst = 50
)

// Throttle wraps a slog.Logger behind a token-bucket limiter. Log calls that
// exceed the limit are counted and surfaced as a "suppressed" attribute on
// the next permitted line.
type Throttle struct {
	logger  *slog.Logger
	limiter *rate.Limiter
	dropped atomic.Uint64
}

// New creates a throttle emitting at most perSec lines per second with the
// given burst. A nil logger resolves to slog.Default at log time.
func New(logger *slog.Logger, perSec float64, burst int) *Throttle {
	if perSec <= 0 {
		perSec = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Throttle{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
	}
}

// Warn logs at warning level if the limiter permits.
func (t *Throttle) Warn(msg string, args ...any) {
	if l, args, ok := t.allow(args); ok {
		l.Warn(msg, args...)
	}
}

// Error logs at error level if the limiter permits.
func (t *Throttle) Error(msg string, args ...any) {
	if l, args, ok := t.allow(args); ok {
		l.Error(msg, args...)
	}
}

// Dropped returns the number of log calls suppressed since the last
// permitted line.
func (t *Throttle) Dropped() uint64 {
	return t.dropped.Load()
}

func (t *Throttle) allow(args []any) (*slog.Logger, []any, bool) {
	if !t.limiter.Allow() {
		t.dropped.Add(1)
		return nil, nil, false
	}
	if n := t.dropped.Swap(0); n > 0 {
		args = append(args, slog.Uint64("suppressed", n))
	}
	l := t.logger
	if l == nil {
		l = slog.Default()
	}
	return l, args, true
}

var defaultThrottle = New(nil, DefaultRate, DefaultBurst)

// Default returns the shared process-wide throttle.
func Default() *Throttle {
	return defaultThrottle
}

package logger

import (
	"context"
	"log/slog"
	"time"
)

// TimerOption configures a Timer span.
type TimerOption func(*timer)

type timer struct {
	warnAfter time.Duration
	attrs     []slog.Attr
}

// WarnIfExceeds raises the completion record to WARN when the span takes longer than d.
func WarnIfExceeds(d time.Duration) TimerOption {
	return func(t *timer) {
		if d > 0 {
			t.warnAfter = d
		}
	}
}

// WithTimerAttrs attaches attributes to the completion record.
func WithTimerAttrs(attrs ...slog.Attr) TimerOption {
	return func(t *timer) {
		t.attrs = append(t.attrs, attrs...)
	}
}

// Timer starts a timed span and returns the function that ends it.
// Ending the span logs msg with the elapsed time in milliseconds.
//
//	stop := logger.Timer(ctx, log, "email.send")
//	defer stop()
func Timer(ctx context.Context, log *slog.Logger, msg string, opts ...TimerOption) func() {
	t := &timer{}
	for _, opt := range opts {
		opt(t)
	}
	start := time.Now()

	return func() {
		elapsed := time.Since(start)
		level := slog.LevelInfo
		if t.warnAfter > 0 && elapsed > t.warnAfter {
			level = slog.LevelWarn
		}
		attrs := append([]slog.Attr{
			slog.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000),
		}, t.attrs...)
		log.LogAttrs(ctx, level, msg, attrs...)
	}
}

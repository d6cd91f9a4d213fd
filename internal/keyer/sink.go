package keyer

import (
	"context"
	"time"
)

// SilentSink only waits out the durations. It is used when no audio device
// is available so the console still follows the real timing.
type SilentSink struct{}

// Tone implements Sink.
func (SilentSink) Tone(ctx context.Context, _, _ float64, d time.Duration) error {
	return sleep(ctx, d)
}

// Silence implements Sink.
func (SilentSink) Silence(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

// Close implements Sink.
func (SilentSink) Close() error { return nil }

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

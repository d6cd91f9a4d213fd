package keyer

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/cwterm/internal/model"
)

// Sink renders tones and silences. Both calls block for the duration and
// return early with ctx.Err() when ctx is cancelled.
type Sink interface {
	Tone(ctx context.Context, freq, volume float64, d time.Duration) error
	Silence(ctx context.Context, d time.Duration) error
	Close() error
}

// Keyer plays text through a Sink.
type Keyer struct {
	sink   Sink
	logger *slog.Logger
}

// New returns a Keyer writing to sink.
func New(sink Sink, logger *slog.Logger) *Keyer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyer{sink: sink, logger: logger}
}

// Close releases the sink.
func (k *Keyer) Close() error {
	return k.sink.Close()
}

// Play keys text with cfg. onChar is called with the index of each rune just
// before it is played. Characters without a Morse code are skipped.
func (k *Keyer) Play(ctx context.Context, text string, cfg model.TxConfig, onChar func(idx int)) error {
	timing := NewTiming(cfg.WPM, cfg.Eff)
	freq := float64(cfg.Freq)
	volume := clampVolume(cfg.Volume)

	for i, r := range []rune(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onChar != nil {
			onChar(i)
		}
		if r == ' ' {
			// The previous char already paid CharGap.
			if err := k.sink.Silence(ctx, timing.WordGap-timing.CharGap); err != nil {
				return err
			}
			continue
		}
		code, ok := Code(r)
		if !ok {
			k.logger.Debug("skipping char without morse code", "char", string(r))
			continue
		}
		for j, el := range code {
			d := timing.Dit
			if el == '-' {
				d = timing.Dah
			}
			if err := k.sink.Tone(ctx, freq, volume, d); err != nil {
				return err
			}
			if j < len(code)-1 {
				if err := k.sink.Silence(ctx, timing.Dit); err != nil {
					return err
				}
			}
		}
		if err := k.sink.Silence(ctx, timing.CharGap); err != nil {
			return err
		}
	}
	return nil
}

func clampVolume(v int) float64 {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return float64(v) / 100
}

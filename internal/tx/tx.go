// Package tx provides the Morse transmitter used by the console commands.
package tx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verte-zerg/cwterm/internal/model"
)

// SettingsKey is the settings store key of the persisted configuration.
const SettingsKey = "tx"

// DefaultConfig is used when nothing was persisted yet.
var DefaultConfig = model.TxConfig{WPM: 20, Eff: 0, Freq: 600, Volume: 50}

// Properties lists the configurable keys in display order.
var Properties = []string{"wpm", "eff", "freq", "volume"}

// Player keys a message. It must return promptly once ctx is cancelled.
type Player interface {
	Play(ctx context.Context, text string, cfg model.TxConfig, onChar func(idx int)) error
}

// Settings is the key-value store holding the configuration.
type Settings interface {
	Get(key string, dst any) (bool, error)
	Set(key string, v any) error
}

// Tx sends messages through a Player one at a time and reports progress
// through listeners.
type Tx struct {
	player   Player
	settings Settings
	logger   *slog.Logger

	mu      sync.Mutex
	conf    model.TxConfig
	message string
	cancel  context.CancelFunc
	done    chan struct{}

	startListeners listeners[StartEvent]
	stopListeners  listeners[StopEvent]
	charListeners  listeners[CharEvent]
	confListeners  listeners[ConfChangeEvent]
}

// New loads the persisted configuration, storing defaults when absent.
func New(player Player, settings Settings, defaults model.TxConfig, logger *slog.Logger) (*Tx, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tx{player: player, settings: settings, logger: logger}
	found, err := settings.Get(SettingsKey, &t.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to load tx config: %w", err)
	}
	if !found {
		t.conf = defaults
		if err := settings.Set(SettingsKey, t.conf); err != nil {
			return nil, fmt.Errorf("failed to store tx config: %w", err)
		}
	}
	return t, nil
}

// Config returns the persisted configuration.
func (t *Tx) Config() model.TxConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conf
}

// Message returns the last message sent.
func (t *Tx) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Busy reports whether a message is playing.
func (t *Tx) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil
}

// Send starts playing message in the background. A message still playing is
// stopped first and its StopEvent delivered before the new StartEvent.
func (t *Tx) Send(message string, params model.PlaybackParams) {
	t.mu.Lock()
	prevCancel, prevDone := t.cancel, t.done
	t.mu.Unlock()
	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	cfg := params.Resolve(t.conf)
	t.message = message
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go t.run(ctx, cancel, done, message, cfg)
}

func (t *Tx) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, message string, cfg model.TxConfig) {
	defer close(done)
	defer cancel()

	t.startListeners.emit(StartEvent{Message: message})
	err := t.player.Play(ctx, message, cfg, func(idx int) {
		t.charListeners.emit(CharEvent{Message: message, Idx: idx})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		t.logger.Error("transmission failed", "err", err)
	}

	t.mu.Lock()
	if t.done == done {
		t.cancel = nil
		t.done = nil
	}
	t.mu.Unlock()

	t.stopListeners.emit(StopEvent{Message: message})
}

// Stop cancels the message being played. Its StopEvent is delivered
// asynchronously. When idle, a StopEvent is emitted right away.
func (t *Tx) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	message := t.message
	t.mu.Unlock()
	if cancel == nil {
		t.stopListeners.emit(StopEvent{Message: message})
		return
	}
	cancel()
}

// Wait blocks until the current message is done or ctx is cancelled.
func (t *Tx) Wait(ctx context.Context) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Set changes one configuration property, persists it and notifies
// ConfChange listeners.
func (t *Tx) Set(property string, value int) error {
	t.mu.Lock()
	conf := t.conf
	t.mu.Unlock()

	if err := Validate(property, value); err != nil {
		return err
	}
	switch property {
	case "wpm":
		conf.WPM = value
	case "eff":
		conf.Eff = value
	case "freq":
		conf.Freq = value
	case "volume":
		conf.Volume = value
	}

	if err := t.settings.Set(SettingsKey, conf); err != nil {
		return fmt.Errorf("failed to store tx config: %w", err)
	}
	t.mu.Lock()
	t.conf = conf
	t.mu.Unlock()
	t.confListeners.emit(ConfChangeEvent{Conf: conf})
	return nil
}

// Get returns the value of one configuration property.
func (t *Tx) Get(property string) (int, error) {
	conf := t.Config()
	switch property {
	case "wpm":
		return conf.WPM, nil
	case "eff":
		return conf.Eff, nil
	case "freq":
		return conf.Freq, nil
	case "volume":
		return conf.Volume, nil
	default:
		return 0, fmt.Errorf("unknown tx property %q", property)
	}
}

// OnStart registers a StartEvent listener and returns its release func.
func (t *Tx) OnStart(fn func(StartEvent)) func() { return t.startListeners.add(fn) }

// OnStop registers a StopEvent listener and returns its release func.
func (t *Tx) OnStop(fn func(StopEvent)) func() { return t.stopListeners.add(fn) }

// OnChar registers a CharEvent listener and returns its release func.
func (t *Tx) OnChar(fn func(CharEvent)) func() { return t.charListeners.add(fn) }

// OnConfChange registers a ConfChangeEvent listener and returns its release func.
func (t *Tx) OnConfChange(fn func(ConfChangeEvent)) func() { return t.confListeners.add(fn) }

// Validate checks value against the range accepted for property.
func Validate(property string, value int) error {
	switch property {
	case "wpm":
		if value <= 0 {
			return fmt.Errorf("wpm must be > 0, got %d", value)
		}
	case "eff":
		if value < 0 {
			return fmt.Errorf("eff must be >= 0, got %d", value)
		}
	case "freq":
		if value <= 0 {
			return fmt.Errorf("freq must be > 0, got %d", value)
		}
	case "volume":
		if value < 0 || value > 100 {
			return fmt.Errorf("volume must be between 0 and 100, got %d", value)
		}
	default:
		return fmt.Errorf("unknown tx property %q", property)
	}
	return nil
}

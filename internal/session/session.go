// Package session drives Koch training rounds: listening, practice,
// scoring and curriculum progress.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/tx"
)

// SettingsKey is the settings store key of the curriculum progress.
const SettingsKey = "koch"

// ErrRoundActive is returned when a round is started while another runs.
var ErrRoundActive = errors.New("a training round is already active")

// Transmitter plays text as Morse.
type Transmitter interface {
	Send(text string, params model.PlaybackParams)
	Stop()
	Busy() bool
	Config() model.TxConfig
	OnStart(fn func(tx.StartEvent)) (release func())
	OnStop(fn func(tx.StopEvent)) (release func())
	OnChar(fn func(tx.CharEvent)) (release func())
}

// LineReader reads one line of user input.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// KeyInterceptor delivers single key presses to fn until released.
type KeyInterceptor interface {
	InterceptKeys(fn func(key string)) (release func())
}

// SettingsStore is a persistent key-value store with JSON values.
type SettingsStore interface {
	Get(key string, dst any) (bool, error)
	Set(key string, v any) error
}

// Display receives user facing output.
type Display interface {
	Write(s string)
	Writeln(s string)
}

// History records scored rounds and reports weak characters.
type History interface {
	InsertRound(ctx context.Context, round model.RoundStats, chars []model.CharStats) (string, error)
	GetWeakChars(ctx context.Context, window int) ([]model.CharAggregate, error)
}

// Deps are the collaborators of a Session. History and Logger are optional.
type Deps struct {
	Tx       Transmitter
	Lines    LineReader
	Keys     KeyInterceptor
	Settings SettingsStore
	Display  Display
	History  History
	Builder  *koch.Builder
	Logger   *slog.Logger

	// DefaultGroupCount seeds the progress record when none is stored.
	DefaultGroupCount int
	// WeakWindow is the number of recent rounds weak chars are taken from.
	WeakWindow int
}

// Session owns the curriculum progress and runs training rounds.
type Session struct {
	tx       Transmitter
	lines    LineReader
	keys     KeyInterceptor
	settings SettingsStore
	display  Display
	history  History
	builder  *koch.Builder
	logger   *slog.Logger

	weakWindow int

	mu       sync.Mutex
	phase    Phase
	progress koch.Progress
}

const defaultWeakWindow = 20

// New loads the stored progress, storing a fresh record when none exists.
func New(deps Deps) (*Session, error) {
	if deps.Tx == nil || deps.Lines == nil || deps.Keys == nil || deps.Settings == nil || deps.Display == nil {
		return nil, fmt.Errorf("session: missing collaborator")
	}
	s := &Session{
		tx:         deps.Tx,
		lines:      deps.Lines,
		keys:       deps.Keys,
		settings:   deps.Settings,
		display:    deps.Display,
		history:    deps.History,
		builder:    deps.Builder,
		logger:     deps.Logger,
		weakWindow: deps.WeakWindow,
	}
	if s.builder == nil {
		s.builder = koch.NewBuilder()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.weakWindow <= 0 {
		s.weakWindow = defaultWeakWindow
	}

	found, err := s.settings.Get(SettingsKey, &s.progress)
	if err != nil {
		return nil, fmt.Errorf("failed to load koch progress: %w", err)
	}
	if !found {
		s.progress = koch.DefaultProgress()
		if deps.DefaultGroupCount > 0 {
			s.progress.GroupCount = deps.DefaultGroupCount
		}
		if err := s.saveProgress(); err != nil {
			return nil, err
		}
		return s, nil
	}
	s.progress.Normalize()
	return s, nil
}

// Progress returns a copy of the curriculum state.
func (s *Session) Progress() koch.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.progress
	p.LessonStatus = append([]koch.LessonStatus(nil), s.progress.LessonStatus...)
	return p
}

// Phase returns the phase of the current round.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) begin(p Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrRoundActive
	}
	s.phase = p
	return nil
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Session) end() { s.setPhase(PhaseIdle) }

func (s *Session) saveProgress() error {
	s.mu.Lock()
	p := s.progress
	s.mu.Unlock()
	if err := s.settings.Set(SettingsKey, p); err != nil {
		return fmt.Errorf("failed to store koch progress: %w", err)
	}
	return nil
}

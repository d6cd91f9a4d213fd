package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/tx"
)

type memSettings struct {
	mu   sync.Mutex
	vals map[string][]byte
}

func newMemSettings() *memSettings {
	return &memSettings{vals: map[string][]byte{}}
}

func (m *memSettings) Get(key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.vals[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memSettings) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = raw
	return nil
}

func (m *memSettings) progress(t *testing.T) koch.Progress {
	t.Helper()
	var p koch.Progress
	found, err := m.Get(SettingsKey, &p)
	require.NoError(t, err)
	require.True(t, found)
	return p
}

type fakePlayer struct {
	mu    sync.Mutex
	texts []string
	block bool
}

func (p *fakePlayer) Play(ctx context.Context, text string, _ model.TxConfig, onChar func(int)) error {
	p.mu.Lock()
	p.texts = append(p.texts, text)
	block := p.block
	p.mu.Unlock()
	for i := range []rune(text) {
		onChar(i)
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (p *fakePlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.texts)
}

type fakeLines struct {
	fn func() (string, error)
}

func (l *fakeLines) ReadLine(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.fn()
}

type fakeKeys struct {
	mu       sync.Mutex
	fn       func(string)
	released int
}

func (k *fakeKeys) InterceptKeys(fn func(string)) func() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.fn = fn
	return func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		k.fn = nil
		k.released++
	}
}

func (k *fakeKeys) press(key string) {
	k.mu.Lock()
	fn := k.fn
	k.mu.Unlock()
	if fn != nil {
		fn(key)
	}
}

func (k *fakeKeys) releasedCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.released
}

type fakeDisplay struct {
	mu  sync.Mutex
	out strings.Builder
}

func (d *fakeDisplay) Write(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out.WriteString(s)
}

func (d *fakeDisplay) Writeln(s string) { d.Write(s + "\n") }

func (d *fakeDisplay) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.String()
}

type fakeHistory struct {
	rounds []model.RoundStats
	chars  [][]model.CharStats
	weak   []model.CharAggregate
	window int
}

func (h *fakeHistory) InsertRound(_ context.Context, round model.RoundStats, chars []model.CharStats) (string, error) {
	h.rounds = append(h.rounds, round)
	h.chars = append(h.chars, chars)
	return "id", nil
}

func (h *fakeHistory) GetWeakChars(_ context.Context, window int) ([]model.CharAggregate, error) {
	h.window = window
	return h.weak, nil
}

type harness struct {
	s        *Session
	tx       *tx.Tx
	player   *fakePlayer
	settings *memSettings
	lines    *fakeLines
	keys     *fakeKeys
	display  *fakeDisplay
	history  *fakeHistory
}

func newHarness(t *testing.T, settings *memSettings) *harness {
	t.Helper()
	h := &harness{
		player:   &fakePlayer{},
		settings: settings,
		keys:     &fakeKeys{},
		display:  &fakeDisplay{},
		history:  &fakeHistory{},
	}
	tr, err := tx.New(h.player, settings, tx.DefaultConfig, nil)
	require.NoError(t, err)
	h.tx = tr
	// Perfect copy of whatever was sent last.
	h.lines = &fakeLines{fn: func() (string, error) { return tr.Message(), nil }}

	s, err := New(Deps{
		Tx:         tr,
		Lines:      h.lines,
		Keys:       h.keys,
		Settings:   settings,
		Display:    h.display,
		History:    h.history,
		Builder:    koch.NewBuilderWithSource(rand.NewSource(7)),
		WeakWindow: 10,
	})
	require.NoError(t, err)
	h.s = s
	t.Cleanup(func() {
		tr.Stop()
		_ = tr.Wait(context.Background())
	})
	return h
}

func TestNewStoresDefaultProgress(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)

	stored := settings.progress(t)
	assert.Equal(t, koch.DefaultProgress(), stored)
	assert.Equal(t, 1, h.s.Progress().CurrentLesson)
	assert.Equal(t, PhaseIdle, h.s.Phase())
}

func TestNewUsesDefaultGroupCount(t *testing.T) {
	settings := newMemSettings()
	tr, err := tx.New(&fakePlayer{}, settings, tx.DefaultConfig, nil)
	require.NoError(t, err)
	s, err := New(Deps{Tx: tr, Lines: &fakeLines{}, Keys: &fakeKeys{}, Settings: settings, Display: &fakeDisplay{}, DefaultGroupCount: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, s.Progress().GroupCount)
	assert.Equal(t, 7, settings.progress(t).GroupCount)
}

func TestNewNormalizesStoredProgress(t *testing.T) {
	settings := newMemSettings()
	require.NoError(t, settings.Set(SettingsKey, koch.Progress{CurrentLesson: 99, CharToImprove: "%"}))
	h := newHarness(t, settings)

	p := h.s.Progress()
	assert.Equal(t, 1, p.CurrentLesson)
	assert.Equal(t, koch.DefaultGroupCount, p.GroupCount)
	assert.Empty(t, p.CharToImprove)
	assert.Len(t, p.LessonStatus, koch.LessonCount)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestPracticePerfectCopyPassesLesson(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)

	require.NoError(t, h.s.Practice(context.Background(), model.PlaybackParams{}))

	sent := strings.Fields(h.tx.Message())
	assert.Len(t, sent, koch.DefaultGroupCount)
	for _, g := range sent {
		for _, r := range g {
			assert.Contains(t, []string{"K", "M"}, string(r))
		}
	}

	p := settings.progress(t)
	assert.Equal(t, koch.StatusPassed, p.Status(1))
	assert.Empty(t, p.CharToImprove)
	assert.Equal(t, PhaseIdle, h.s.Phase())

	require.Len(t, h.history.rounds, 1)
	round := h.history.rounds[0]
	assert.Equal(t, 1, round.Lesson)
	assert.Equal(t, "M", round.MainChar)
	assert.True(t, round.Passed)
	assert.Equal(t, koch.DefaultGroupCount*koch.GroupLen, round.Total)
	assert.Zero(t, round.Errors)
	assert.Equal(t, tx.DefaultConfig.WPM, round.WPM)
	assert.Contains(t, h.display.String(), "Lesson 1 passed.")
}

func TestPracticeFailureSetsCharToImprove(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)
	h.lines.fn = func() (string, error) { return "", nil }

	require.NoError(t, h.s.Practice(context.Background(), model.PlaybackParams{}))

	p := settings.progress(t)
	assert.Equal(t, koch.StatusPending, p.Status(1))
	first := string([]rune(h.tx.Message())[0])
	assert.Equal(t, first, p.CharToImprove)
	require.Len(t, h.history.rounds, 1)
	assert.False(t, h.history.rounds[0].Passed)
	assert.Contains(t, h.display.String(), "not passed")
}

func TestPracticeReadErrorKeepsProgress(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)
	readErr := errors.New("input closed")
	h.lines.fn = func() (string, error) { return "", readErr }

	err := h.s.Practice(context.Background(), model.PlaybackParams{})
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, koch.DefaultProgress(), settings.progress(t))
	assert.Empty(t, h.history.rounds)
	assert.Equal(t, PhaseIdle, h.s.Phase())
}

func TestPracticeRejectsConcurrentRound(t *testing.T) {
	h := newHarness(t, newMemSettings())
	h.s.setPhase(PhaseAwaitingTranscription)

	assert.ErrorIs(t, h.s.Practice(context.Background(), model.PlaybackParams{}), ErrRoundActive)
	assert.ErrorIs(t, h.s.Listen(context.Background(), model.PlaybackParams{}), ErrRoundActive)
	assert.ErrorIs(t, h.s.SetLesson(3), ErrRoundActive)
}

func TestPracticeCustomCharsLeavesProgress(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)

	err := h.s.PracticeCustomChars(context.Background(), "a", []string{"b", "A", "b", "c"}, model.PlaybackParams{}, 3)
	require.NoError(t, err)

	assert.Len(t, strings.Fields(h.tx.Message()), 3)
	assert.Equal(t, koch.DefaultProgress(), settings.progress(t))
	require.Len(t, h.history.rounds, 1)
	assert.Equal(t, 0, h.history.rounds[0].Lesson)
	assert.Equal(t, "A", h.history.rounds[0].MainChar)
	for _, cs := range h.history.chars[0] {
		assert.Contains(t, []string{"A", "B", "C"}, cs.Char)
	}
}

func TestPracticeCustomCharsRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, newMemSettings())

	err := h.s.PracticeCustomChars(context.Background(), "K", []string{"k"}, model.PlaybackParams{}, 0)
	assert.ErrorIs(t, err, koch.ErrInvalidGroupInput)

	err = h.s.PracticeCustomChars(context.Background(), "KM", []string{"A"}, model.PlaybackParams{}, 0)
	assert.ErrorIs(t, err, koch.ErrInvalidGroupInput)

	assert.Empty(t, h.history.rounds)
	assert.Equal(t, PhaseIdle, h.s.Phase())
}

func TestPracticeWeakUsesHistory(t *testing.T) {
	h := newHarness(t, newMemSettings())
	h.history.weak = []model.CharAggregate{
		{Char: "K", Total: 10, Errors: 1},
		{Char: "R", Total: 10, Errors: 6},
		{Char: "U", Total: 10, Errors: 3},
	}

	require.NoError(t, h.s.PracticeWeak(context.Background(), model.PlaybackParams{}, 2))
	assert.Equal(t, 10, h.history.window)
	require.Len(t, h.history.rounds, 1)
	assert.Equal(t, "R", h.history.rounds[0].MainChar)
	assert.Contains(t, h.display.String(), "Weak chars: R U K")
}

func TestPracticeWeakNeedsHistory(t *testing.T) {
	h := newHarness(t, newMemSettings())
	h.history.weak = []model.CharAggregate{{Char: "K", Total: 5, Errors: 1}}
	assert.Error(t, h.s.PracticeWeak(context.Background(), model.PlaybackParams{}, 0))
}

func TestSetLesson(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)

	require.NoError(t, h.s.SetLesson(5))
	assert.Equal(t, 5, settings.progress(t).CurrentLesson)
	assert.Contains(t, h.display.String(), "Main char:       S")

	require.NoError(t, h.s.SetLesson(0))
	assert.Equal(t, 5, settings.progress(t).CurrentLesson)

	assert.ErrorIs(t, h.s.SetLesson(41), koch.ErrInvalidLesson)
	assert.ErrorIs(t, h.s.SetLesson(-1), koch.ErrInvalidLesson)
	assert.Equal(t, 5, settings.progress(t).CurrentLesson)
}

func TestShowAndListLessons(t *testing.T) {
	h := newHarness(t, newMemSettings())

	require.NoError(t, h.s.ShowLesson(2))
	out := h.display.String()
	assert.Contains(t, out, "Lesson 2")
	assert.Contains(t, out, "Secondary chars: K M")
	assert.ErrorIs(t, h.s.ShowLesson(50), koch.ErrInvalidLesson)

	h.s.ListLessons()
	lines := strings.Split(strings.TrimSpace(h.display.String()), "\n")
	assert.GreaterOrEqual(t, len(lines), koch.LessonCount)
	assert.Contains(t, h.display.String(), "40  X")
}

func TestSetConfigGroupCount(t *testing.T) {
	settings := newMemSettings()
	h := newHarness(t, settings)

	require.NoError(t, h.s.SetConfig("group-count", 20))
	assert.Equal(t, 20, settings.progress(t).GroupCount)
	assert.Error(t, h.s.SetConfig("group-count", 0))
	assert.Error(t, h.s.SetConfig("speed", 3))

	h.s.ShowConfig()
	assert.Contains(t, h.display.String(), "group-count: 20")
}

func TestListenStopsOnKeyPress(t *testing.T) {
	h := newHarness(t, newMemSettings())
	done := make(chan error, 1)
	go func() { done <- h.s.Listen(context.Background(), model.PlaybackParams{}) }()

	require.Eventually(t, func() bool { return h.player.count() >= 3 }, 2*time.Second, time.Millisecond)
	h.keys.press("q")

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("listen did not stop")
	}
	assert.Equal(t, 1, h.keys.releasedCount())
	assert.Equal(t, PhaseIdle, h.s.Phase())
	require.Eventually(t, func() bool { return !h.tx.Busy() }, 2*time.Second, time.Millisecond)

	h.player.mu.Lock()
	texts := append([]string(nil), h.player.texts...)
	h.player.mu.Unlock()
	assert.Equal(t, "MMMMMMMMMM ", texts[0])
	assert.Equal(t, "KKKKKKKKKK ", texts[1])
}

func TestListenLessonTwoRepeatsMainOnly(t *testing.T) {
	h := newHarness(t, newMemSettings())
	require.NoError(t, h.s.SetLesson(2))
	done := make(chan error, 1)
	go func() { done <- h.s.Listen(context.Background(), model.PlaybackParams{}) }()

	require.Eventually(t, func() bool { return h.player.count() >= 2 }, 2*time.Second, time.Millisecond)
	h.keys.press(" ")
	require.NoError(t, <-done)

	h.player.mu.Lock()
	defer h.player.mu.Unlock()
	for _, text := range h.player.texts {
		assert.Equal(t, "UUUUUUUUUU ", text)
	}
}

func TestListenStopsOnContextCancel(t *testing.T) {
	h := newHarness(t, newMemSettings())
	h.player.block = true
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.s.Listen(ctx, model.PlaybackParams{}) }()

	require.Eventually(t, func() bool { return h.player.count() >= 1 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatalf("listen did not stop")
	}
	assert.Equal(t, 1, h.keys.releasedCount())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting transcription", PhaseAwaitingTranscription.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/stats"
)

const weakCharCount = 6

// round is one generated, transmitted and scored group set.
type round struct {
	groups    []string
	result    koch.PracticeResult
	startedAt time.Time
	endedAt   time.Time
	conf      model.TxConfig
}

// Practice runs a round of the current lesson, focusing on the char to
// improve when one is set, and updates the lesson status.
func (s *Session) Practice(ctx context.Context, params model.PlaybackParams) error {
	if err := s.begin(PhaseBuilding); err != nil {
		return err
	}
	defer s.end()

	progress := s.Progress()
	lesson, err := koch.LessonChars(progress.CurrentLesson, progress.CharToImprove)
	if errors.Is(err, koch.ErrMainCharNotInLesson) {
		s.logger.Warn("dropping stale char to improve", "char", progress.CharToImprove, "lesson", progress.CurrentLesson)
		lesson, err = koch.LessonChars(progress.CurrentLesson, "")
	}
	if err != nil {
		return err
	}

	r, err := s.runRound(ctx, lesson.Main, lesson.Secondary, progress.GroupCount, params)
	if err != nil {
		return err
	}

	s.setPhase(PhaseUpdatingState)
	s.mu.Lock()
	passed := s.progress.ApplyResult(lesson.Number, r.result.Stats)
	charToImprove := s.progress.CharToImprove
	s.mu.Unlock()
	if err := s.saveProgress(); err != nil {
		return err
	}
	s.recordRound(ctx, r, lesson.Number, lesson.Main, passed)

	s.renderResult(r.result)
	if passed {
		s.display.Writeln(fmt.Sprintf("Lesson %d passed.", lesson.Number))
	} else {
		s.display.Writeln(fmt.Sprintf("Lesson %d not passed. Char to improve: %s", lesson.Number, charToImprove))
	}
	return nil
}

// PracticeCustomChars runs a round with caller chosen characters. A
// groupCount of zero uses the configured count. Progress is not changed.
func (s *Session) PracticeCustomChars(ctx context.Context, main string, secondary []string, params model.PlaybackParams, groupCount int) error {
	if err := s.begin(PhaseBuilding); err != nil {
		return err
	}
	defer s.end()
	return s.practiceCustom(ctx, main, secondary, params, groupCount)
}

// PracticeWeak runs a custom round on the characters with the lowest
// accuracy in recent history. The weakest one is used as main char.
func (s *Session) PracticeWeak(ctx context.Context, params model.PlaybackParams, groupCount int) error {
	if err := s.begin(PhaseBuilding); err != nil {
		return err
	}
	defer s.end()

	if s.history == nil {
		return fmt.Errorf("practice history is not available")
	}
	aggs, err := s.history.GetWeakChars(ctx, s.weakWindow)
	if err != nil {
		return fmt.Errorf("failed to load weak chars: %w", err)
	}
	weak := stats.SelectWeakChars(aggs, weakCharCount)
	if len(weak) < 2 {
		return fmt.Errorf("not enough practice history to pick weak chars")
	}
	s.display.Writeln("Weak chars: " + strings.Join(weak, " "))
	return s.practiceCustom(ctx, weak[0], weak[1:], params, groupCount)
}

func (s *Session) practiceCustom(ctx context.Context, main string, secondary []string, params model.PlaybackParams, groupCount int) error {
	main, secondary, err := normalizeChars(main, secondary)
	if err != nil {
		return err
	}
	if groupCount == 0 {
		groupCount = s.Progress().GroupCount
	}

	r, err := s.runRound(ctx, main, secondary, groupCount, params)
	if err != nil {
		return err
	}
	s.recordRound(ctx, r, 0, main, r.result.Stats.Passed())
	s.renderResult(r.result)
	return nil
}

// normalizeChars upper-cases the input, drops the main char from the
// secondary set and removes duplicates, keeping first occurrences.
func normalizeChars(main string, secondary []string) (string, []string, error) {
	main = strings.ToUpper(strings.TrimSpace(main))
	if len([]rune(main)) != 1 {
		return "", nil, fmt.Errorf("%w: main char must be a single character, got %q", koch.ErrInvalidGroupInput, main)
	}
	seen := map[string]bool{main: true}
	out := make([]string, 0, len(secondary))
	for _, ch := range secondary {
		ch = strings.ToUpper(strings.TrimSpace(ch))
		if ch == "" || seen[ch] {
			continue
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return main, out, nil
}

func (s *Session) runRound(ctx context.Context, main string, secondary []string, groupCount int, params model.PlaybackParams) (round, error) {
	r := round{startedAt: time.Now(), conf: params.Resolve(s.tx.Config())}

	groups, err := s.builder.Build(main, secondary, groupCount)
	if err != nil {
		return round{}, err
	}
	r.groups = groups

	s.setPhase(PhaseTransmitting)
	s.tx.Send(strings.Join(groups, " "), params)

	s.setPhase(PhaseAwaitingTranscription)
	line, err := s.lines.ReadLine(ctx, "")
	s.tx.Stop()
	if err != nil {
		return round{}, err
	}

	s.setPhase(PhaseScoring)
	r.result = koch.CheckGroups(groups, koch.ParseTranscription(line))
	r.endedAt = time.Now()
	s.logger.Debug("round scored", "main", main, "groups", len(groups), "accuracy", r.result.Accuracy())
	return r, nil
}

func (s *Session) recordRound(ctx context.Context, r round, lesson int, main string, passed bool) {
	if s.history == nil {
		return
	}
	total, errs := r.result.Stats.Totals()
	chars := make([]model.CharStats, 0, len(r.result.Stats))
	for _, st := range r.result.Stats {
		chars = append(chars, model.CharStats{Char: st.Char, Total: st.Total, Errors: st.Errors})
	}
	rs := model.RoundStats{
		StartedAt:  r.startedAt,
		EndedAt:    r.endedAt,
		Lesson:     lesson,
		MainChar:   main,
		GroupCount: len(r.groups),
		WPM:        r.conf.WPM,
		Eff:        r.conf.Eff,
		Passed:     passed,
		Total:      total,
		Errors:     errs,
	}
	if _, err := s.history.InsertRound(ctx, rs, chars); err != nil {
		s.logger.Error("failed to record round", "err", err)
	}
}

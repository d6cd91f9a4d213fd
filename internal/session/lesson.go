package session

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/theme"
)

// SetLesson makes n the current lesson. Zero shows the current lesson
// without changing anything.
func (s *Session) SetLesson(n int) error {
	if n == 0 {
		return s.ShowLesson(0)
	}
	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return ErrRoundActive
	}
	err := s.progress.SetLesson(n)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.saveProgress(); err != nil {
		return err
	}
	return s.ShowLesson(n)
}

// ShowLesson prints the characters of lesson n, or the current lesson when
// n is zero.
func (s *Session) ShowLesson(n int) error {
	progress := s.Progress()
	if n == 0 {
		n = progress.CurrentLesson
	}
	lesson, err := koch.LessonChars(n, "")
	if err != nil {
		return err
	}
	s.display.Writeln(fmt.Sprintf("Lesson %d (%s)", lesson.Number, statusLabel(progress, n)))
	s.display.Writeln("  Main char:       " + lesson.Main)
	s.display.Writeln("  Secondary chars: " + strings.Join(lesson.Secondary, " "))
	if n == progress.CurrentLesson && progress.CharToImprove != "" {
		s.display.Writeln("  Char to improve: " + progress.CharToImprove)
	}
	return nil
}

// ListLessons prints every lesson with its main char and status.
func (s *Session) ListLessons() {
	progress := s.Progress()
	for n := 1; n <= koch.LessonCount; n++ {
		marker := "  "
		if n == progress.CurrentLesson {
			marker = theme.Current.Render("> ")
		}
		s.display.Writeln(fmt.Sprintf("%s%2d  %s  %s", marker, n, koch.Alphabet[n], statusLabel(progress, n)))
	}
}

func statusLabel(p koch.Progress, n int) string {
	st := p.Status(n)
	if st == koch.StatusPassed {
		return theme.Passed.Render(string(st))
	}
	return theme.Pending.Render(string(st))
}

// ConfigKeys lists the curriculum settings accepted by SetConfig.
var ConfigKeys = []string{"group-count"}

// ShowConfig prints the curriculum settings.
func (s *Session) ShowConfig() {
	p := s.Progress()
	s.display.Writeln(fmt.Sprintf("group-count: %d", p.GroupCount))
	s.display.Writeln(fmt.Sprintf("lesson: %d", p.CurrentLesson))
	if p.CharToImprove != "" {
		s.display.Writeln("char-to-improve: " + p.CharToImprove)
	}
}

// SetConfig changes one curriculum setting and persists it.
func (s *Session) SetConfig(key string, value int) error {
	switch key {
	case "group-count":
		s.mu.Lock()
		err := s.progress.SetGroupCount(value)
		s.mu.Unlock()
		if err != nil {
			return err
		}
		return s.saveProgress()
	default:
		return fmt.Errorf("unknown koch setting %q (valid: %s)", key, strings.Join(ConfigKeys, ", "))
	}
}

package koch

import "fmt"

// LessonStatus is the completion state of a lesson.
type LessonStatus string

const (
	StatusPending LessonStatus = "pending"
	StatusPassed  LessonStatus = "passed"
)

// DefaultGroupCount is the number of groups practiced per round.
const DefaultGroupCount = 12

// Progress is the persisted curriculum state.
type Progress struct {
	LessonStatus  []LessonStatus `json:"lessonStatus"`
	CurrentLesson int            `json:"currentLesson"`
	GroupCount    int            `json:"groupCount"`
	CharToImprove string         `json:"charToImprove,omitempty"`
}

// DefaultProgress returns the state of a new learner.
func DefaultProgress() Progress {
	status := make([]LessonStatus, LessonCount)
	for i := range status {
		status[i] = StatusPending
	}
	return Progress{
		LessonStatus:  status,
		CurrentLesson: 1,
		GroupCount:    DefaultGroupCount,
	}
}

// Normalize repairs a loaded record so every field is in range.
func (p *Progress) Normalize() {
	if len(p.LessonStatus) != LessonCount {
		status := make([]LessonStatus, LessonCount)
		copy(status, p.LessonStatus)
		p.LessonStatus = status
	}
	for i, st := range p.LessonStatus {
		if st != StatusPassed {
			p.LessonStatus[i] = StatusPending
		}
	}
	if p.CurrentLesson < 1 || p.CurrentLesson > LessonCount {
		p.CurrentLesson = 1
	}
	if p.GroupCount <= 0 {
		p.GroupCount = DefaultGroupCount
	}
	if p.CharToImprove != "" && !IsSymbol(p.CharToImprove) {
		p.CharToImprove = ""
	}
}

// Status returns the status of lesson n.
func (p Progress) Status(n int) LessonStatus {
	if n < 1 || n > len(p.LessonStatus) {
		return StatusPending
	}
	return p.LessonStatus[n-1]
}

// SetLesson moves the current lesson pointer. Zero is accepted and leaves
// the pointer unchanged.
func (p *Progress) SetLesson(n int) error {
	if n < 0 || n > LessonCount {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidLesson, n, LessonCount)
	}
	if n == 0 {
		return nil
	}
	if n != p.CurrentLesson {
		p.CharToImprove = ""
	}
	p.CurrentLesson = n
	return nil
}

// SetGroupCount changes the default number of groups per round.
func (p *Progress) SetGroupCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("group count must be > 0, got %d", n)
	}
	p.GroupCount = n
	return nil
}

// ApplyResult records a practice round of lesson n. The lesson passes when
// every char reached PassAccuracy; otherwise the weakest char is flagged.
func (p *Progress) ApplyResult(n int, stats CharStats) bool {
	if n < 1 || n > len(p.LessonStatus) {
		return false
	}
	if stats.Passed() {
		p.LessonStatus[n-1] = StatusPassed
		p.CharToImprove = ""
		return true
	}
	if weakest, ok := stats.Weakest(); ok {
		p.CharToImprove = weakest.Char
	}
	return false
}

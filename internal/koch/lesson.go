package koch

import (
	"fmt"
	"strings"
)

// Lesson is the character set practiced in a lesson.
type Lesson struct {
	Number    int
	Main      string
	Secondary []string
}

// Chars returns all lesson characters, main first.
func (l Lesson) Chars() []string {
	out := make([]string, 0, len(l.Secondary)+1)
	out = append(out, l.Main)
	return append(out, l.Secondary...)
}

// LessonChars returns the character set for lesson n. Lesson n introduces
// Alphabet[n] and reviews every symbol taught before it. A non-empty override
// replaces the main char; it must be one of the lesson's symbols.
func LessonChars(n int, override string) (Lesson, error) {
	if n < 1 || n > LessonCount {
		return Lesson{}, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidLesson, n, LessonCount)
	}
	if override == "" {
		secondary := make([]string, n)
		copy(secondary, Alphabet[:n])
		return Lesson{Number: n, Main: Alphabet[n], Secondary: secondary}, nil
	}

	override = strings.ToUpper(override)
	learned := Alphabet[:n+1]
	if indexOf(learned, override) < 0 {
		return Lesson{}, fmt.Errorf("%w: %q in lesson %d", ErrMainCharNotInLesson, override, n)
	}
	secondary := make([]string, 0, n)
	for _, ch := range learned {
		if ch != override {
			secondary = append(secondary, ch)
		}
	}
	return Lesson{Number: n, Main: override, Secondary: secondary}, nil
}

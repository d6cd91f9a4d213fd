// Package koch implements the Koch-method curriculum: lesson character sets,
// practice group generation and transcription scoring.
package koch

import "strings"

// Alphabet lists the Koch teaching order.
var Alphabet = []string{
	"K", "M", "U", "R", "E", "S", "N", "A", "P", "T",
	"L", "W", "I", ".", "J", "Z", "=", "F", "O", "Y",
	",", "V", "G", "5", "/", "Q", "9", "2", "H", "3",
	"8", "B", "?", "4", "7", "C", "1", "D", "6", "0",
	"X",
}

const (
	// LessonCount is the number of lessons in the curriculum.
	LessonCount = 40
	// GroupLen is the number of characters per practice group.
	GroupLen = 5
	// MinCharRepetitions is the minimum number of times any secondary
	// character appears in a generated group set.
	MinCharRepetitions = 5
	// PassAccuracy is the per-character accuracy needed to pass a lesson.
	PassAccuracy = 80.0
)

// IsSymbol reports whether s is part of the Koch alphabet.
func IsSymbol(s string) bool {
	return indexOf(Alphabet, strings.ToUpper(s)) >= 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

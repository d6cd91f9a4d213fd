package koch

import "errors"

var (
	// ErrInvalidLesson is returned for lesson numbers outside the curriculum.
	ErrInvalidLesson = errors.New("invalid lesson number")
	// ErrMainCharNotInLesson is returned when a main char override is not
	// among the characters learned up to the lesson.
	ErrMainCharNotInLesson = errors.New("main char not present in lesson")
	// ErrInvalidGroupInput is returned when group generation preconditions fail.
	ErrInvalidGroupInput = errors.New("invalid group input")
)

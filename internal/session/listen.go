package session

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/tx"
)

const listenRepeat = 10

// Listen plays the main char of the current lesson (every lesson char in
// lesson 1) over and over until a key is pressed or ctx is done.
func (s *Session) Listen(ctx context.Context, params model.PlaybackParams) error {
	if err := s.begin(PhaseListening); err != nil {
		return err
	}
	defer s.end()

	lesson, err := koch.LessonChars(s.Progress().CurrentLesson, "")
	if err != nil {
		return err
	}
	chars := []string{lesson.Main}
	if lesson.Number == 1 {
		chars = append(chars, lesson.Secondary...)
	}

	var exit atomic.Bool
	stopped := make(chan struct{}, 1)
	releaseStop := s.tx.OnStop(func(tx.StopEvent) {
		select {
		case stopped <- struct{}{}:
		default:
		}
	})
	defer releaseStop()
	releaseKeys := s.keys.InterceptKeys(func(string) {
		exit.Store(true)
		s.tx.Stop()
	})
	defer releaseKeys()

	s.display.Writeln("Listening to " + strings.Join(chars, " ") + ". Press any key to stop.")
	for i := 0; ; i++ {
		if exit.Load() {
			break
		}
		s.tx.Send(strings.Repeat(chars[i%len(chars)], listenRepeat)+" ", params)
		select {
		case <-stopped:
		case <-ctx.Done():
			s.tx.Stop()
			return ctx.Err()
		}
	}
	// A key pressed between two messages may leave the last one playing.
	if s.tx.Busy() {
		s.tx.Stop()
	}
	return nil
}

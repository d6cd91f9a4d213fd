package tx

import (
	"sync"

	"github.com/verte-zerg/cwterm/internal/model"
)

// StartEvent is emitted when a message starts playing.
type StartEvent struct {
	Message string
}

// StopEvent is emitted when a message finished or was stopped. It is always
// delivered after every CharEvent of the same message.
type StopEvent struct {
	Message string
}

// CharEvent is emitted as each character of a message starts playing.
type CharEvent struct {
	Message string
	Idx     int
}

// ConfChangeEvent is emitted after the persisted configuration changed.
type ConfChangeEvent struct {
	Conf model.TxConfig
}

type listeners[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
	ids  []int
}

// add registers fn and returns a func removing it. Release is idempotent.
func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = map[int]func(T){}
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.ids = append(l.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
			for i, v := range l.ids {
				if v == id {
					l.ids = append(l.ids[:i], l.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// emit calls listeners in registration order outside the lock, so a
// listener may register or release listeners itself.
func (l *listeners[T]) emit(ev T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.ids))
	for _, id := range l.ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

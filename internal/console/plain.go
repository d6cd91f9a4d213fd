package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// Plain is a line based console for non-interactive input. A key press is
// emulated by a whole input line.
type Plain struct {
	out io.Writer
	in  io.Reader

	mu sync.Mutex

	startOnce sync.Once
	lines     chan string
	readErr   error
}

// NewPlain creates a console reading from in and writing to out.
func NewPlain(in io.Reader, out io.Writer) *Plain {
	return &Plain{in: in, out: out, lines: make(chan string)}
}

func (p *Plain) start() {
	p.startOnce.Do(func() {
		go func() {
			defer close(p.lines)
			scanner := bufio.NewScanner(p.in)
			for scanner.Scan() {
				p.lines <- scanner.Text()
			}
			p.mu.Lock()
			p.readErr = scanner.Err()
			p.mu.Unlock()
		}()
	})
}

// Write prints s as is.
func (p *Plain) Write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprint(p.out, s); err != nil {
		// Best-effort console output.
		_ = err
	}
}

// Writeln prints s followed by a newline.
func (p *Plain) Writeln(s string) {
	p.Write(s + "\n")
}

// ReadLine prints prompt and returns the next input line.
func (p *Plain) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		p.Write(prompt)
	}
	p.start()
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", p.eof()
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *Plain) eof() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return p.readErr
	}
	return io.EOF
}

// InterceptKeys calls fn with the next input line, or once input ended,
// unless released first.
func (p *Plain) InterceptKeys(fn func(key string)) func() {
	p.start()
	done := make(chan struct{})
	go func() {
		select {
		case line, ok := <-p.lines:
			if !ok {
				// Input ended; nothing else could stop the caller.
				line = ""
			}
			fn(line)
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Package console provides the terminal front ends of the shell: a Bubble
// Tea console for interactive terminals and a plain line console.
package console

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cwterm/internal/theme"
)

// TUI is an interactive console. Output is printed above the input line and
// the status bar, so it stays in the terminal scrollback.
type TUI struct {
	prog *tea.Program
	done chan struct{}

	mu      sync.Mutex
	partial string

	nextKeyID atomic.Int64
}

// NewTUI creates a console showing status in its status bar.
func NewTUI(status func() Status, opts ...tea.ProgramOption) *TUI {
	return &TUI{
		prog: tea.NewProgram(newModel(status), opts...),
		done: make(chan struct{}),
	}
}

// Run runs the terminal UI until Quit is called or the user presses Ctrl+C.
func (c *TUI) Run() error {
	defer close(c.done)
	_, err := c.prog.Run()
	return err
}

// Quit stops the terminal UI.
func (c *TUI) Quit() {
	c.prog.Quit()
}

// Refresh redraws the status bar. It never blocks, so it may be called from
// event listeners running on the UI goroutine.
func (c *TUI) Refresh() {
	go c.prog.Send(refreshMsg{})
}

// Write prints s. Text after the last newline is held until the line is
// completed.
func (c *TUI) Write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text := c.partial + s
	idx := strings.LastIndexByte(text, '\n')
	if idx < 0 {
		c.partial = text
		return
	}
	c.partial = text[idx+1:]
	for _, line := range strings.Split(text[:idx], "\n") {
		c.println(line)
	}
}

// Writeln prints s followed by a newline.
func (c *TUI) Writeln(s string) {
	c.Write(s + "\n")
}

func (c *TUI) println(line string) {
	select {
	case <-c.done:
	default:
		c.prog.Println(line)
	}
}

// ReadLine shows prompt and waits for the user to press Enter. It returns
// io.EOF after Ctrl+C, Ctrl+D or once the UI stopped.
func (c *TUI) ReadLine(ctx context.Context, prompt string) (string, error) {
	reply := make(chan string, 1)
	if !c.send(readRequestMsg{prompt: prompt, reply: reply}) {
		return "", io.EOF
	}
	select {
	case line, ok := <-reply:
		if !ok {
			return "", io.EOF
		}
		c.Writeln(theme.Prompt.Render(prompt) + line)
		return line, nil
	case <-ctx.Done():
		c.send(cancelReadMsg{reply: reply})
		return "", ctx.Err()
	case <-c.done:
		return "", io.EOF
	}
}

// InterceptKeys passes key presses to fn while no line is being read.
func (c *TUI) InterceptKeys(fn func(key string)) func() {
	id := c.nextKeyID.Add(1)
	c.send(keyHandlerMsg{id: id, fn: fn})
	var once sync.Once
	return func() {
		once.Do(func() { c.send(releaseKeysMsg{id: id}) })
	}
}

func (c *TUI) send(msg tea.Msg) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	c.prog.Send(msg)
	return true
}

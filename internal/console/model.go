package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cwterm/internal/theme"
)

type readRequestMsg struct {
	prompt string
	reply  chan string
}

type cancelReadMsg struct {
	reply chan string
}

type keyHandlerMsg struct {
	id int64
	fn func(key string)
}

type releaseKeysMsg struct {
	id int64
}

type refreshMsg struct{}

// Model is the Bubble Tea model behind the console: one input line while a
// read is pending and a status bar below it.
type Model struct {
	input  textinput.Model
	reply  chan string
	keyID  int64
	keyFn  func(key string)
	status func() Status
	width  int
}

func newModel(status func() Status) *Model {
	input := textinput.New()
	input.PromptStyle = theme.Prompt
	input.Blur()
	if status == nil {
		status = func() Status { return Status{} }
	}
	return &Model{input: input, status: status}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.resizeInput()
		return m, nil
	case readRequestMsg:
		m.closeRead()
		m.reply = msg.reply
		m.input.Prompt = msg.prompt
		m.input.Reset()
		m.resizeInput()
		return m, m.input.Focus()
	case cancelReadMsg:
		if m.reply == msg.reply {
			m.reply = nil
			m.input.Blur()
		}
		return m, nil
	case keyHandlerMsg:
		m.keyID = msg.id
		m.keyFn = msg.fn
		return m, nil
	case releaseKeysMsg:
		if m.keyID == msg.id {
			m.keyFn = nil
		}
		return m, nil
	case refreshMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.reply == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.closeRead()
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.reply != nil && m.input.Value() == "" {
			m.closeRead()
			return m, tea.Quit
		}
	}

	if m.reply == nil {
		if m.keyFn != nil {
			m.keyFn(msg.String())
		}
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		m.reply <- m.input.Value()
		m.reply = nil
		m.input.Reset()
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// closeRead ends a pending read with io.EOF on the reader side.
func (m *Model) closeRead() {
	if m.reply != nil {
		close(m.reply)
		m.reply = nil
	}
	m.input.Blur()
}

func (m *Model) resizeInput() {
	if m.width == 0 {
		return
	}
	m.input.Width = max(1, m.width-runewidth.StringWidth(m.input.Prompt)-1)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	if m.reply != nil {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(renderStatus(m.status(), m.width))
	return b.String()
}

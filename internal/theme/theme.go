// Package theme holds the lipgloss styles shared by the console and the
// training session output.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Error     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	Info      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	Passed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	Pending   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	Current   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	Correct   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	ErrorChar = Error.Underline(true)
	StatusBar = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	Prompt    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Highlight renders group with the runes at the given positions marked as
// errors. Positions past the end of group are rendered as a marked blank.
func Highlight(group string, positions []int) string {
	runes := []rune(group)
	bad := make(map[int]bool, len(positions))
	maxPos := len(runes) - 1
	for _, p := range positions {
		bad[p] = true
		if p > maxPos {
			maxPos = p
		}
	}
	var b strings.Builder
	for i := 0; i <= maxPos; i++ {
		ch := "_"
		if i < len(runes) && runes[i] != ' ' {
			ch = string(runes[i])
		}
		if bad[i] {
			b.WriteString(ErrorChar.Render(ch))
		} else {
			b.WriteString(Correct.Render(ch))
		}
	}
	return b.String()
}

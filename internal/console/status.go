package console

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/theme"
)

// Status is the state shown in the status bar.
type Status struct {
	Tx            model.TxConfig
	Lesson        int
	Main          string
	CharToImprove string
	Sending       bool
}

func renderStatus(st Status, width int) string {
	speed := fmt.Sprintf("%d WPM", st.Tx.WPM)
	if st.Tx.Eff > 0 && st.Tx.Eff < st.Tx.WPM {
		speed = fmt.Sprintf("%d/%d WPM", st.Tx.WPM, st.Tx.Eff)
	}
	segments := []string{speed, fmt.Sprintf("%d Hz · vol %d", st.Tx.Freq, st.Tx.Volume)}
	if st.Lesson > 0 {
		lesson := fmt.Sprintf("Lesson %d (%s)", st.Lesson, st.Main)
		if st.CharToImprove != "" {
			lesson += " · improve " + st.CharToImprove
		}
		segments = append(segments, lesson)
	}
	if st.Sending {
		segments = append(segments, "TX")
	}
	line := strings.Join(segments, "  ")
	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "…")
	}
	return theme.StatusBar.Render(line)
}

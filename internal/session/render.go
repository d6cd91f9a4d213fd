package session

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/stats"
	"github.com/verte-zerg/cwterm/internal/theme"
)

func (s *Session) renderResult(result koch.PracticeResult) {
	received := make([]string, len(result.Received))
	for i, group := range result.Received {
		received[i] = theme.Highlight(group, result.ErrorPositions[i])
	}
	s.display.Writeln("Sent:     " + strings.Join(result.Sent, " "))
	s.display.Writeln("Received: " + strings.Join(received, " "))
	s.display.Writeln(fmt.Sprintf("Accuracy: %.2f%%", result.Accuracy()))
	s.display.Writeln("")

	aggs := make([]model.CharAggregate, 0, len(result.Stats))
	for _, st := range result.Stats {
		aggs = append(aggs, model.CharAggregate{Char: st.Char, Total: st.Total, Errors: st.Errors})
	}
	var b strings.Builder
	if err := stats.RenderCharTable(&b, aggs); err != nil {
		s.logger.Error("failed to render char table", "err", err)
		return
	}
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		s.display.Writeln(line)
	}
}

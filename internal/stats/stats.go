// Package stats contains practice history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/cwterm/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the percentage of correct characters, or 0 when total is 0.
func Accuracy(total, errors int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-errors) * 100 / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of practice rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate, window int) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No practice rounds found.")
		return err
	}
	passed := 0
	best := 0.0
	var totalAcc float64
	accs := make([]float64, len(rounds))
	for i, r := range rounds {
		acc := Accuracy(r.Total, r.Errors)
		accs[i] = acc
		totalAcc += acc
		if acc > best {
			best = acc
		}
		if r.Passed {
			passed++
		}
	}
	count := float64(len(rounds))
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", len(rounds)),
		fmt.Sprintf("Passed: %d", passed),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Best Accuracy: %.2f%%", best),
		fmt.Sprintf("Trend: [%s]", Sparkline(MovingAverage(accs, window))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := sortByAccuracy(aggs)

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}

	headers := []string{"Char", "Accuracy", "Total", "Errors"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Char,
			fmt.Sprintf("%.2f%%", Accuracy(r.Total, r.Errors)),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", r.Errors),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func sortByAccuracy(aggs []model.CharAggregate) []model.CharAggregate {
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai := Accuracy(rows[i].Total, rows[i].Errors)
		aj := Accuracy(rows[j].Total, rows[j].Errors)
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})
	return rows
}

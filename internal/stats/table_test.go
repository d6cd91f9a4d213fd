package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Char", "Accuracy", "Total"}
	rows := [][]string{
		{"K", "97.50%", "40"},
		{"=", "8.00%", "5"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char Accuracy Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "K      97.50%    40" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "=       8.00%     5" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

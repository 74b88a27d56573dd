package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{5, 1},
		{10, 2},
		{50, 10},
		{143, 20},
		{400, 50},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		0.5:  "0.50",
		2.5:  "2.5",
		40:   "40",
		2000: "2k",
		2500: "2.5k",
	}
	for v, want := range tests {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestBarChartLabelsEveryBar(t *testing.T) {
	bars := []Bar{
		{Label: "Army", Value: 40, Color: "#ff0000"},
		{Label: "Navy", Value: 30, Color: "#00ff00"},
		{Label: "Air Force", Value: 20, Color: "#0000ff"},
	}
	out := BarChart(bars, 60, 8)
	last := strings.Split(out, "\n")
	labels := last[len(last)-1]
	for _, want := range []string{"Army", "Navy", "Air"} {
		if !strings.Contains(labels, want) {
			t.Errorf("label row %q missing %q", labels, want)
		}
	}
}

func TestShareListRowWidths(t *testing.T) {
	rows := []Bar{
		{Label: "Army", Share: 0.5, Detail: "$50.00B  50.00%", Color: "#ff0000"},
		{Label: "Remaining Budget", Share: 0.25, Detail: "$25.00B  25.00%", Color: "#d3d3d3"},
	}
	out := ShareList(rows, 70)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Errorf("row widths differ: %d vs %d", lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
	}
}

func TestFitLabel(t *testing.T) {
	if got := fitLabel("Army", 6); got != "Army  " {
		t.Errorf("fitLabel pad = %q", got)
	}
	if got := fitLabel("Marine Corps", 6); got != "Marin…" {
		t.Errorf("fitLabel truncate = %q", got)
	}
}

package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/money"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in    string
		scale money.Scale
		want  string
	}{
		{"21340000000", money.Billions, "$21.34B"},
		{"1234567", money.Standard, "$1,234,567.00"},
		{"-6500000000", money.Billions, "-$6.50B"},
	}
	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.in), tt.scale)
		if got != tt.want {
			t.Errorf("FormatAmount(%s, %s) = %q, want %q", tt.in, tt.scale, got, tt.want)
		}
	}
	if got := FormatAxis(decimal.RequireFromString("21340000000"), money.Billions); got != "$21B" {
		t.Errorf("FormatAxis = %q, want $21B", got)
	}
}

func TestFormatQuantityAndNumber(t *testing.T) {
	if got := FormatQuantity(decimal.RequireFromString("1234567.9")); got != "1,234,567" {
		t.Errorf("FormatQuantity = %q", got)
	}
	if got := FormatNumber(-1234); got != "-1,234" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatShare(decimal.RequireFromString("15.63")); got != "15.6%" {
		t.Errorf("FormatShare = %q", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	s, neg := FormatRemaining(decimal.NewFromInt(-50), money.Standard)
	if !neg || s != "-$50.00" {
		t.Errorf("FormatRemaining = %q, %v", s, neg)
	}
}

func TestRenderTableSeparator(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Group", "Subtotal"},
		Rows:    [][]string{{"Army", "$59.62B"}, {"---"}, {"Total", "$59.62B"}},
	})
	if !strings.Contains(out, "Army") || !strings.Contains(out, "Total") {
		t.Fatalf("table missing rows:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 7 {
		t.Fatalf("table has %d lines, want 7:\n%s", got, out)
	}
}

func TestRenderUtilizationBar(t *testing.T) {
	out := RenderUtilizationBar(0.5, 10)
	if !strings.Contains(out, "50.0%") {
		t.Errorf("bar = %q, want 50.0%%", out)
	}
	if strings.Count(out, "█") != 5 {
		t.Errorf("bar = %q, want 5 filled cells", out)
	}
	over := RenderUtilizationBar(1.2, 10)
	if strings.Count(over, "█") != 10 || !strings.Contains(over, "120.0%") {
		t.Errorf("over bar = %q", over)
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	bar := RenderHorizontalBar(decimal.NewFromInt(1), decimal.NewFromInt(1000), 20, "#ff0000")
	if strings.Count(bar, "█") != 1 {
		t.Errorf("tiny positive values still draw one cell, got %q", bar)
	}
	if RenderHorizontalBar(decimal.NewFromInt(1), decimal.Zero, 20, "#ff0000") != "" {
		t.Error("zero max should render nothing")
	}
}

func TestRenderTableStyledCellsAlign(t *testing.T) {
	bar := RenderHorizontalBar(decimal.NewFromInt(5), decimal.NewFromInt(10), 10, "#ff0000")
	out := RenderTable(Table{
		Headers: []string{"Group", "Bar"},
		Rows:    [][]string{{"Army", bar}, {"Navy", ""}},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if got := lipgloss.Width(l); got != want {
			t.Errorf("line %d width = %d, want %d:\n%s", i, got, want, out)
		}
	}
}

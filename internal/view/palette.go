package view

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the number of distinct group colors before they repeat.
const PaletteSize = 50

// RemainingColor is the grey used for the remaining-budget slice.
const RemainingColor = "#d3d3d3"

const (
	goldenAngle = 137.508
	saturation  = 0.65
	lightness   = 0.50
)

var palette = buildPalette(PaletteSize)

func buildPalette(n int) []string {
	out := make([]string, n)
	for i := range out {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		out[i] = colorful.Hsl(hue, saturation, lightness).Hex()
	}
	return out
}

// Color returns the palette color for the i-th group.
func Color(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// Palette returns a copy of the full palette.
func Palette() []string {
	return append([]string(nil), palette...)
}

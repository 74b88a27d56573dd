// Package theme defines color themes for the fsplan dashboard.
//
// Dark themes are derived from a small base palette: surfaces, borders and
// text tiers are blended between the background and the foreground in Lab
// space, so adding a theme only needs its anchor colors.
package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color
	TextDim       lipgloss.Color // Hints, disabled
	TextMuted     lipgloss.Color // Labels
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color // Allocated share, active states
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color
	WarningBg     lipgloss.Color // Over-limit banner background
	Green         lipgloss.Color // Remaining budget
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color // Approaching the limit
	Red           lipgloss.Color // Over the limit
	Blue          lipgloss.Color
	Yellow        lipgloss.Color
	Cyan          lipgloss.Color
}

// palette holds the anchor colors a dark theme is derived from.
type palette struct {
	name    string
	bg      string
	surface string
	fg      string
	accent  string
	green   string
	orange  string
	red     string
	blue    string
	yellow  string
	cyan    string
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("theme: bad color %q: %v", s, err))
	}
	return c
}

// mix blends from a toward b by t in Lab space.
func mix(a, b string, t float64) lipgloss.Color {
	return lipgloss.Color(hex(a).BlendLab(hex(b), t).Clamped().Hex())
}

func derive(p palette) Theme {
	const white = "#FFFFFF"
	return Theme{
		Name:          p.name,
		Background:    lipgloss.Color(p.bg),
		Surface:       lipgloss.Color(p.surface),
		SurfaceHover:  mix(p.surface, p.fg, 0.07),
		SurfaceBright: mix(p.surface, p.fg, 0.13),
		Border:        mix(p.surface, p.fg, 0.18),
		BorderBright:  mix(p.surface, p.fg, 0.30),
		BorderAccent:  lipgloss.Color(p.accent),
		TextDim:       mix(p.bg, p.fg, 0.33),
		TextMuted:     mix(p.bg, p.fg, 0.55),
		TextPrimary:   lipgloss.Color(p.fg),
		Accent:        lipgloss.Color(p.accent),
		AccentBright:  mix(p.accent, white, 0.25),
		AccentDim:     mix(p.bg, p.accent, 0.18),
		WarningBg:     mix(p.bg, p.red, 0.22),
		Green:         lipgloss.Color(p.green),
		GreenBright:   mix(p.green, white, 0.2),
		Orange:        lipgloss.Color(p.orange),
		Red:           lipgloss.Color(p.red),
		Blue:          lipgloss.Color(p.blue),
		Yellow:        lipgloss.Color(p.yellow),
		Cyan:          lipgloss.Color(p.cyan),
	}
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = derive(palette{
	name:    "flexoki-dark",
	bg:      "#100F0F",
	surface: "#1C1B1A",
	fg:      "#FFFCF0",
	accent:  "#3AA99F",
	green:   "#879A39",
	orange:  "#DA702C",
	red:     "#D14D41",
	blue:    "#4385BE",
	yellow:  "#D0A215",
	cyan:    "#24837B",
})

// CatppuccinMocha is a pastel theme.
var CatppuccinMocha = derive(palette{
	name:    "catppuccin-mocha",
	bg:      "#1E1E2E",
	surface: "#313244",
	fg:      "#CDD6F4",
	accent:  "#89B4FA",
	green:   "#A6E3A1",
	orange:  "#FAB387",
	red:     "#F38BA8",
	blue:    "#89B4FA",
	yellow:  "#F9E2AF",
	cyan:    "#94E2D5",
})

// TokyoNight is a cool blue/purple theme.
var TokyoNight = derive(palette{
	name:    "tokyo-night",
	bg:      "#1A1B26",
	surface: "#24283B",
	fg:      "#C0CAF5",
	accent:  "#7AA2F7",
	green:   "#9ECE6A",
	orange:  "#FF9E64",
	red:     "#F7768E",
	blue:    "#7AA2F7",
	yellow:  "#E0AF68",
	cyan:    "#7DCFFF",
})

// GruvboxDark is a warm retro theme.
var GruvboxDark = derive(palette{
	name:    "gruvbox-dark",
	bg:      "#1D2021",
	surface: "#282828",
	fg:      "#EBDBB2",
	accent:  "#D79921",
	green:   "#98971A",
	orange:  "#D65D0E",
	red:     "#CC241D",
	blue:    "#458588",
	yellow:  "#FABD2F",
	cyan:    "#689D6A",
})

// Terminal uses ANSI 16 colors only. ANSI indexes cannot be blended, so
// every role is spelled out.
var Terminal = Theme{
	Name:          "terminal",
	Background:    "0",
	Surface:       "0",
	SurfaceHover:  "8",
	SurfaceBright: "8",
	Border:        "8",
	BorderBright:  "7",
	BorderAccent:  "6",
	TextDim:       "8",
	TextMuted:     "7",
	TextPrimary:   "15",
	Accent:        "6",
	AccentBright:  "14",
	AccentDim:     "0",
	WarningBg:     "1",
	Green:         "2",
	GreenBright:   "10",
	Orange:        "3",
	Red:           "1",
	Blue:          "4",
	Yellow:        "11",
	Cyan:          "6",
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, GruvboxDark, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Lookup returns the named theme and whether it exists. Unknown names yield
// FlexokiDark.
func Lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return FlexokiDark, false
}

// ByName is Lookup without the found flag.
func ByName(name string) Theme {
	t, _ := Lookup(name)
	return t
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

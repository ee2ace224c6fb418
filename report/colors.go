package report

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for console reports.
type ColorScheme struct {
	Name     *color.Color
	Rate     *color.Color
	UsageLow *color.Color // below 50% busy
	UsageMid *color.Color // 50% to 80% busy
	UsageHot *color.Color // above 80% busy
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Name:     color.New(color.FgCyan, color.Bold),
		Rate:     color.New(color.FgMagenta),
		UsageLow: color.New(color.FgGreen),
		UsageMid: color.New(color.FgYellow),
		UsageHot: color.New(color.FgRed, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Name.DisableColor()
	scheme.Rate.DisableColor()
	scheme.UsageLow.DisableColor()
	scheme.UsageMid.DisableColor()
	scheme.UsageHot.DisableColor()

	return scheme
}

// usageColor picks the color for a utilization fraction.
func (cs *ColorScheme) usageColor(u float64) *color.Color {
	switch {
	case u > 0.8:
		return cs.UsageHot
	case u >= 0.5:
		return cs.UsageMid
	default:
		return cs.UsageLow
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

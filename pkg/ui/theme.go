package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Panel accents
	Check    lipgloss.AdaptiveColor
	Weakness lipgloss.AdaptiveColor
	Strength lipgloss.AdaptiveColor
	Quote    lipgloss.AdaptiveColor
	Line     lipgloss.AdaptiveColor
	Center   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Status   lipgloss.Style
}

// DefaultTheme returns the Tailwind-slate theme of the mind map (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"}, // Blue (center node)
		Secondary: lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"}, // Slate
		Subtext:   lipgloss.AdaptiveColor{Light: "#334155", Dark: "#CBD5E1"},

		Check:    lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Weakness: lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"},
		Strength: lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Quote:    lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"},
		Line:     lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#475569"},
		Center:   lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#3B82F6"},

		Border:    lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#1E293B"},
		Muted:     lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#64748B"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F8FAFC"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Center).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#F8FAFC"}).
		Bold(true).
		Padding(0, 1)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.Status = r.NewStyle().Foreground(t.Secondary)

	return t
}

// ApplyMode forces a light or dark background on r. "auto" and "" leave
// lipgloss detection in place.
func ApplyMode(r *lipgloss.Renderer, mode string) {
	switch mode {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
}

// PrincipleColor returns the terminal color for a principle accent.
func PrincipleColor(hex string) lipgloss.TerminalColor {
	return ThemeFg(hex)
}

// PrincipleBadge renders id on the principle color, like the round badge of
// the quick list.
func (t Theme) PrincipleBadge(id int, hex string) string {
	return t.Renderer.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 1).
		Render(strconv.Itoa(id))
}

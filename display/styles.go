// Package display renders simulator output for the terminal: amplitude
// listings, per-qubit probabilities, shot histograms and circuit diagrams.
package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Layout constants
const (
	cellW        = 11 // width of each step column in characters
	labelVisualW = 7  // visual width of qubit label area
	gateNameW    = 5  // width of gate name inside box
	gateBoxW     = 7  // ┤ + gateNameW + ├ = 1 + 5 + 1
)

// Styles holds the lipgloss styles used by every renderer in the package.
type Styles struct {
	Title         lipgloss.Style
	Gate          lipgloss.Style
	Cursor        lipgloss.Style
	Active        lipgloss.Style
	QubitLabel    lipgloss.Style
	Dim           lipgloss.Style
	Bar           lipgloss.Style
	CbitLabel     lipgloss.Style
	CbitWire      lipgloss.Style
	CbitConnector lipgloss.Style
}

// NewStyles returns the colour scheme bound to r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64")),
		Gate:          r.NewStyle().Bold(true).Foreground(lipgloss.Color("#73daca")),
		Cursor:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64")),
		Active:        r.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		QubitLabel:    r.NewStyle().Foreground(lipgloss.Color("#7dcfff")),
		Dim:           r.NewStyle().Foreground(lipgloss.Color("#565f89")),
		Bar:           r.NewStyle().Foreground(lipgloss.Color("#7aa2f7")),
		CbitLabel:     r.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		CbitWire:      r.NewStyle().Foreground(lipgloss.Color("#565f89")),
		CbitConnector: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#e0af68")),
	}
}

// DefaultStyles returns the colour scheme for lipgloss's default renderer,
// which detects the capabilities of standard output.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// PlainStyles returns styles that emit no escape sequences at all.
func PlainStyles() Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewStyles(r)
}

// StylesFor returns the styles for a colour mode: "never" is plain,
// "always" forces true colour on w, anything else lets lipgloss detect what
// w supports.
func StylesFor(w io.Writer, mode string) Styles {
	switch mode {
	case "never":
		return PlainStyles()
	case "always":
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.TrueColor)
		return NewStyles(r)
	}
	return NewStyles(lipgloss.NewRenderer(w))
}

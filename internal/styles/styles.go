// Package styles defines the lipgloss palette used for console output.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Colors
	CyanColor   = lipgloss.Color("#22D3EE") // Headings
	GreenColor  = lipgloss.Color("#10B981") // Success
	YellowColor = lipgloss.Color("#FBBF24") // Progress bullets, warnings
	RedColor    = lipgloss.Color("#F87171") // Failures
	MutedColor  = lipgloss.Color("#9CA3AF") // Secondary detail
)

// Glyphs printed in front of console lines.
const (
	GlyphBullet  = "•"
	GlyphCheck   = "✓"
	GlyphCross   = "✗"
	GlyphArrow   = "→"
	GlyphWarn    = "⚠️"
	GlyphTimer   = "⏱"
	GlyphReset   = "↻"
	GlyphWait    = "⏳"
	GlyphSearch  = "🔍"
	GlyphPhone   = "📱"
	GlyphDone    = "✅"
	GlyphFailure = "❌"
)

// Palette is a set of styles bound to one output stream.
type Palette struct {
	Header  lipgloss.Style
	Bullet  lipgloss.Style
	Success lipgloss.Style
	Strong  lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// New builds a Palette for w. Color is detected from w unless color is
// false, in which case every style renders plain text.
func New(w io.Writer, color bool) Palette {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return newPalette(r)
}

// Plain returns a Palette that never emits escape sequences.
func Plain() Palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return newPalette(r)
}

func newPalette(r *lipgloss.Renderer) Palette {
	return Palette{
		Header:  r.NewStyle().Bold(true).Foreground(CyanColor),
		Bullet:  r.NewStyle().Foreground(YellowColor),
		Success: r.NewStyle().Foreground(GreenColor),
		Strong:  r.NewStyle().Bold(true).Foreground(GreenColor),
		Failure: r.NewStyle().Bold(true).Foreground(RedColor),
		Warning: r.NewStyle().Foreground(YellowColor),
		Muted:   r.NewStyle().Foreground(MutedColor),
	}
}

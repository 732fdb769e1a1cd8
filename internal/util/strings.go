// Package util holds small formatting helpers shared by the console
// renderer and the progress bar.
package util

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateANSI shortens s to maxWidth visible columns, ending in "...".
// Escape sequences are preserved and wide characters count double.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Seconds returns d in whole seconds, truncated toward zero.
func Seconds(d time.Duration) int {
	return int(d / time.Second)
}

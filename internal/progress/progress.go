// Package progress draws a time-based progress bar while a blocking probe
// runs. The bar only reflects elapsed time against the probe's timeout; it
// never influences the probe itself.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"
	"github.com/sourcegraph/conc"

	"github.com/kazu728/reauthfi/internal/styles"
	"github.com/kazu728/reauthfi/internal/util"
)

const (
	// Slots is the width of the bar in cells.
	Slots = 20
	// DefaultInterval is how often the bar is redrawn.
	DefaultInterval = 500 * time.Millisecond
)

// Tracker redraws a bar on one writer.
type Tracker struct {
	out      io.Writer
	palette  styles.Palette
	bar      progress.Model
	interval time.Duration
}

// New creates a Tracker writing to w.
func New(w io.Writer, color bool) *Tracker {
	opts := []progress.Option{
		progress.WithWidth(Slots),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('█', '░'),
		progress.WithSolidFill(string(styles.YellowColor)),
	}
	if !color {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii))
	}

	return &Tracker{
		out:      w,
		palette:  styles.New(w, color),
		bar:      progress.New(opts...),
		interval: DefaultInterval,
	}
}

// Track runs fn on the calling goroutine while a worker redraws the bar
// every interval. The worker has exited and the line has been terminated
// with a newline by the time Track returns.
func (t *Tracker) Track(label string, timeout time.Duration, fn func()) {
	start := time.Now()
	total := util.Seconds(timeout)

	var done atomic.Bool
	wake := make(chan struct{})

	t.draw(label, 0, total)

	var wg conc.WaitGroup
	wg.Go(func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for !done.Load() {
			select {
			case <-ticker.C:
			case <-wake:
				continue
			}
			if elapsed := util.Seconds(time.Since(start)); elapsed <= total {
				t.draw(label, elapsed, total)
			}
		}
		fmt.Fprintln(t.out)
	})

	defer func() {
		done.Store(true)
		close(wake)
		wg.Wait()
	}()

	fn()
}

func (t *Tracker) draw(label string, elapsed, total int) {
	fmt.Fprintf(t.out, "\r  %s %s [%s] %ds/%ds",
		t.palette.Bullet.Render(styles.GlyphBullet),
		label,
		t.bar.ViewAs(Fraction(elapsed, total)),
		elapsed,
		total,
	)
}

// Fraction returns the filled share of the bar, snapped to whole slots.
func Fraction(elapsed, total int) float64 {
	if total < 1 {
		total = 1
	}
	filled := min(elapsed*Slots/total, Slots)
	if filled < 0 {
		filled = 0
	}
	return float64(filled) / Slots
}

// Track is shorthand for New(w, true).Track(label, timeout, fn).
func Track(w io.Writer, label string, timeout time.Duration, fn func()) {
	New(w, true).Track(label, timeout, fn)
}

// Package console renders run events as the human-readable progress log
// printed to stdout.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"

	"github.com/kazu728/reauthfi/internal/detect"
	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/styles"
	"github.com/kazu728/reauthfi/internal/util"
)

// Renderer prints one line (or block) per relevant event. Verbose mode adds
// per-probe detail and replaces the compact summaries.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	p       styles.Palette
	verbose bool
	// width truncates single lines when positive.
	width int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth truncates status lines to width columns. Portal URLs, the
// network-not-ready detail and errors are never truncated. Zero disables
// truncation.
func WithWidth(width int) Option {
	return func(r *Renderer) { r.width = width }
}

// New creates a Renderer writing to out.
func New(out io.Writer, palette styles.Palette, verbose bool, opts ...Option) *Renderer {
	r := &Renderer{out: out, p: palette, verbose: verbose}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TerminalWidth returns the column count of f, or 0 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	if f == nil || !term.IsTerminal(f.Fd()) {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(f.Fd())
}

// Attach subscribes the renderer to every event on bus and returns a
// function that removes the subscription.
func (r *Renderer) Attach(bus *event.Bus) func() {
	id := bus.SubscribeAll(r.Handle)
	return func() { bus.Unsubscribe(id) }
}

// Handle renders a single event. Events without console output are ignored.
func (r *Renderer) Handle(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := e.(type) {
	case event.RunStartedEvent:
		r.line(r.p.Header.Render(styles.GlyphSearch + " Detecting Captive Portal..."))
	case event.StrategyStartedEvent:
		r.strategyStarted(ev)
	case event.GatewayResolvedEvent:
		if r.verbose {
			r.line(fmt.Sprintf("  %s Gateway IP: %s", r.p.Bullet.Render(styles.GlyphBullet), ev.IP))
		}
	case event.GatewayFailedEvent:
		if r.verbose {
			r.line(r.p.Muted.Render(fmt.Sprintf("  %s Gateway lookup failed: %v", styles.GlyphCross, ev.Err)))
		}
	case event.ProbeStartedEvent:
		if r.verbose {
			r.line(fmt.Sprintf("  %s Checking %s (%s)", r.p.Bullet.Render(styles.GlyphBullet), ev.Target, ev.URL))
		}
	case event.ProbeFinishedEvent:
		r.probeFinished(ev)
	case event.PortalOpeningEvent:
		r.line(r.p.Header.Render(styles.GlyphPhone + " Opening in browser..."))
	case event.PortalOpenedEvent:
		r.line(r.p.Strong.Render(styles.GlyphDone + " Done!"))
	case event.NoPortalEvent:
		r.line(r.p.Strong.Render(styles.GlyphDone) + " No captive portal detected")
	case event.WifiResetStartedEvent:
		r.line(fmt.Sprintf("%s Resetting Wi-Fi on %s and retrying after reconnect...",
			r.p.Warning.Render(styles.GlyphReset), ev.Device))
	case event.WifiResetFailedEvent:
		if r.verbose {
			r.line(r.p.Muted.Render(fmt.Sprintf("  %s Wi-Fi reset failed: %v", styles.GlyphCross, ev.Err)))
		}
	case event.WifiWaitingEvent:
		r.line(fmt.Sprintf("%s Waiting %ds for Wi-Fi to reconnect...",
			r.p.Warning.Render(styles.GlyphWait), util.Seconds(ev.Delay)))
	case event.NetworkNotReadyEvent:
		r.networkNotReady(ev.Errors)
	}
}

// Error prints a fatal error.
func (r *Renderer) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fullLine(fmt.Sprintf("%s %v", r.p.Failure.Render(styles.GlyphFailure), err))
}

func (r *Renderer) strategyStarted(ev event.StrategyStartedEvent) {
	if r.verbose {
		return
	}
	bullet := r.p.Bullet.Render(styles.GlyphBullet)
	switch ev.Strategy {
	case detect.StrategyStandard:
		r.line(fmt.Sprintf("  %s Checking captive portal endpoints (%d total)...", bullet, ev.TargetCount))
	case detect.StrategyGateway:
		r.line(fmt.Sprintf("  %s Checking gateway endpoints...", bullet))
	}
}

func (r *Renderer) probeFinished(ev event.ProbeFinishedEvent) {
	if r.verbose && ev.Outcome == event.OutcomeIssue {
		switch ev.Failure {
		case event.FailureTimeout:
			r.line(fmt.Sprintf("    %s Timeout (%ds)", r.p.Warning.Render(styles.GlyphTimer), util.Seconds(ev.Timeout)))
		case event.FailureConnect:
			r.line(fmt.Sprintf("    %s Connection failed", r.p.Failure.Render(styles.GlyphCross)))
		case event.FailureOther:
			r.line(fmt.Sprintf("    %s Failed: %s", r.p.Failure.Render(styles.GlyphCross), ev.Detail))
		}
	}

	switch ev.Outcome {
	case event.OutcomePortal:
		if r.verbose {
			r.fullLine(fmt.Sprintf("    %s Portal detected via %s (%s)", r.p.Strong.Render(styles.GlyphArrow), ev.Target, ev.PortalURL))
			return
		}
		r.line(fmt.Sprintf("    %s %s redirect detected", r.p.Success.Render(styles.GlyphCheck), ev.Target))
		r.fullLine(fmt.Sprintf("  %s Portal URL: %s", r.p.Strong.Render(styles.GlyphArrow), ev.PortalURL))
	case event.OutcomeIssue:
		if r.verbose {
			return
		}
		if ev.Tolerant {
			r.line(fmt.Sprintf("    %s %s unreachable (ignored)", r.p.Warning.Render(styles.GlyphWarn), ev.Target))
		} else {
			r.line(fmt.Sprintf("    %s %s failed", r.p.Failure.Render(styles.GlyphCross), ev.Target))
		}
	case event.OutcomeMismatch:
		if r.verbose {
			r.line(fmt.Sprintf("    %s %s unexpected status %d", r.p.Bullet.Render(styles.GlyphBullet), ev.Target, ev.Status))
		}
	case event.OutcomeOK:
		if r.verbose {
			r.line(fmt.Sprintf("    %s Expected status", r.p.Success.Render(styles.GlyphCheck)))
		}
	}
}

func (r *Renderer) networkNotReady(errs []string) {
	r.line(r.p.Failure.Render(styles.GlyphFailure) + " Network not ready - this may be a first-time Wi-Fi connection")
	r.line("  Close any macOS network popup windows and try again")
	r.line("  Or wait a few seconds for the network to stabilize")

	switch {
	case len(errs) > 0:
		r.fullLine("  Detail: " + strings.Join(errs, ", "))
	case r.verbose:
		r.line("  Detail: none")
	}
}

// line prints a status line, truncated to the terminal width.
func (r *Renderer) line(s string) {
	if r.width > 0 {
		s = util.TruncateANSI(s, r.width)
	}
	fmt.Fprintln(r.out, s)
}

// fullLine prints s untruncated and lets the terminal wrap it. Portal URLs
// and diagnostics must survive intact.
func (r *Renderer) fullLine(s string) {
	fmt.Fprintln(r.out, s)
}

// Package wifi power-cycles the Wi-Fi interface. On macOS a freshly joined
// network sometimes withholds its portal until the interface reassociates.
package wifi

import (
	"context"
	"regexp"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/shell"
)

// DefaultSettleDelay is the pause between powering the interface off and on.
const DefaultSettleDelay = 2 * time.Second

var hardwarePortPattern = regexp.MustCompile(`(?s)Hardware Port:\s*(Wi-Fi|AirPort).*?Device:\s*([^\s]+)`)

// Controller discovers and resets the Wi-Fi interface.
type Controller interface {
	DiscoverDevice(ctx context.Context) (string, error)
	Reset(ctx context.Context, device string) error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Networksetup controls the interface through macOS networksetup(8).
type Networksetup struct {
	runner      shell.Runner
	settleDelay time.Duration
	sleep       SleepFunc
}

// Option configures a Networksetup controller.
type Option func(*Networksetup)

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(n *Networksetup) { n.settleDelay = d }
}

// WithSleep replaces the function used to wait between steps.
func WithSleep(sleep SleepFunc) Option {
	return func(n *Networksetup) { n.sleep = sleep }
}

// NewNetworksetup creates a controller that runs commands through runner.
func NewNetworksetup(runner shell.Runner, opts ...Option) *Networksetup {
	n := &Networksetup{
		runner:      runner,
		settleDelay: DefaultSettleDelay,
		sleep:       Sleep,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// DiscoverDevice returns the BSD name (e.g. "en0") of the first Wi-Fi or
// AirPort hardware port.
func (n *Networksetup) DiscoverDevice(ctx context.Context) (string, error) {
	out, err := n.runner.Run(ctx, "networksetup", "-listallhardwareports")
	if err != nil {
		return "", errors.NewNotFoundError("wifi_device", "").WithCause(err)
	}
	return ParseDevice(out)
}

// Reset powers the interface off, waits for the settle delay, and powers it
// back on. It stops at the first failing step.
func (n *Networksetup) Reset(ctx context.Context, device string) error {
	if _, err := n.runner.Run(ctx, "networksetup", "-setairportpower", device, "off"); err != nil {
		return errors.Wrap(err, "setairportpower off")
	}

	if err := n.sleep(ctx, n.settleDelay); err != nil {
		return err
	}

	if _, err := n.runner.Run(ctx, "networksetup", "-setairportpower", device, "on"); err != nil {
		return errors.Wrap(err, "setairportpower on")
	}
	return nil
}

// ParseDevice extracts the Wi-Fi device from networksetup -listallhardwareports
// output.
func ParseDevice(listing string) (string, error) {
	m := hardwarePortPattern.FindStringSubmatch(listing)
	if len(m) < 3 {
		return "", errors.NewNotFoundError("wifi_device", "no Wi-Fi hardware port")
	}
	return m[2], nil
}

// Sleep waits for d, returning early with ctx.Err() if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

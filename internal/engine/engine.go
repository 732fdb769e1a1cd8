// Package engine runs captive-portal detection end to end: one detection
// pass, an optional Wi-Fi reset-and-retry, and handing a discovered portal
// to the opener.
package engine

import (
	"context"
	"time"

	"github.com/kazu728/reauthfi/internal/detect"
	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/logging"
	"github.com/kazu728/reauthfi/internal/netclient"
	"github.com/kazu728/reauthfi/internal/opener"
	"github.com/kazu728/reauthfi/internal/platform"
	"github.com/kazu728/reauthfi/internal/shell"
	"github.com/kazu728/reauthfi/internal/wifi"
)

// DefaultTimeout is the per-request timeout when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// DefaultReconnectDelay is how long the engine waits for the interface to
// reassociate after a Wi-Fi reset.
const DefaultReconnectDelay = 10 * time.Second

// Status is the final verdict of a run.
type Status = detect.Status

const (
	Completed       = detect.StatusCompleted
	NetworkNotReady = detect.StatusNetworkNotReady
)

// Options controls a single run. It is not modified by Run.
type Options struct {
	Verbose bool
	// NoOpen reports a portal without opening it.
	NoOpen bool
	// Gateway probes the default gateway before the well-known endpoints.
	Gateway bool
	// Timeout bounds every probe request and shell command.
	Timeout time.Duration
	// Progress draws a bar while each probe is in flight.
	Progress bool
	// Recovery enables the Wi-Fi reset-and-retry path.
	Recovery bool
	// ReconnectDelay overrides DefaultReconnectDelay.
	ReconnectDelay time.Duration
}

// ClientFactory builds the network client for one pass.
type ClientFactory func(timeout time.Duration) (netclient.NetworkClient, error)

// Deps are the collaborators of a run. Zero-valued optional fields fall
// back to the real implementations.
type Deps struct {
	Platform *platform.Config
	Runner   shell.Runner
	// NewClient defaults to netclient.New.
	NewClient ClientFactory
	// Opener defaults to the platform's open command.
	Opener opener.Opener
	// Wifi defaults to networksetup through Runner.
	Wifi   wifi.Controller
	Cancel *detect.CancelFlag
	Bus    *event.Bus
	Logger *logging.Logger
	// Track wraps each probe when Options.Progress is set.
	Track detect.Tracker
	// Sleep defaults to wifi.Sleep.
	Sleep wifi.SleepFunc
}

// Result is the outcome of a run.
type Result struct {
	Status    Status
	PortalURL string
	// Errors are the diagnostics behind a NetworkNotReady status.
	Errors []string
	// Retried reports whether the reset-and-retry path ran a second pass.
	Retried bool
	// Opened reports whether the portal was handed to the opener.
	Opened bool
}

// Run performs detection and, when needed, recovery. Probe and command
// failures become diagnostics in Result; only setup failures and a failure
// to open a discovered portal are returned as errors.
func Run(ctx context.Context, deps Deps, opts Options) (Result, error) {
	deps, opts, err := withDefaults(deps, opts)
	if err != nil {
		return Result{}, err
	}

	log := deps.Logger.With("platform", deps.Platform.Name)
	log.Info("run started",
		"gateway_first", opts.Gateway,
		"timeout", opts.Timeout.String(),
		"recovery", opts.Recovery,
	)
	deps.Bus.Publish(event.NewRunStartedEvent(deps.Platform.Name, opts.Gateway))

	first, err := runPass(ctx, deps, opts, "detect")
	if err != nil {
		return Result{}, err
	}

	final := first
	retried := false
	if first.Status == NetworkNotReady {
		final, retried, err = newRecovery(deps, opts).attempt(ctx, first)
		if err != nil {
			return Result{}, err
		}
	}

	result := Result{
		Status:    final.Status,
		PortalURL: final.PortalURL,
		Errors:    final.Errors,
		Retried:   retried,
	}

	switch {
	case final.PortalFound():
		deps.Bus.Publish(event.NewPortalFoundEvent(final.PortalURL))
		if opts.NoOpen {
			log.Info("portal found, not opening", "portal_url", final.PortalURL)
			return result, nil
		}
		if err := openPortal(ctx, deps, final.PortalURL); err != nil {
			log.Error("failed to open portal", "portal_url", final.PortalURL, "error", err)
			return result, err
		}
		result.Opened = true
	case final.Status == Completed:
		deps.Bus.Publish(event.NewNoPortalEvent())
	default:
		log.Warn("network not ready", "errors", final.Errors, "retried", retried)
		deps.Bus.Publish(event.NewNetworkNotReadyEvent(final.Errors))
	}

	log.Info("run finished", "status", result.Status.String(), "retried", retried)
	return result, nil
}

// runPass runs one orchestration pass with a freshly built client.
func runPass(ctx context.Context, deps Deps, opts Options, phase string) (detect.PassResult, error) {
	client, err := deps.NewClient(opts.Timeout)
	if err != nil {
		return detect.PassResult{}, errors.NewSetupError("failed to build http client", err).WithComponent("netclient")
	}
	if closer, ok := client.(interface{ Close() }); ok {
		defer closer.Close()
	}

	env := &detect.Env{
		Config:  deps.Platform,
		Client:  client,
		Runner:  deps.Runner,
		Cancel:  deps.Cancel,
		Timeout: opts.Timeout,
		Bus:     deps.Bus,
		Logger:  deps.Logger.WithPhase(phase),
	}
	if opts.Progress && !opts.Verbose {
		env.Track = deps.Track
	}

	pass := detect.NewOrchestrator(env, detect.Priority(opts.Gateway)...).Detect(ctx)
	deps.Logger.WithPhase(phase).Info("pass finished",
		"status", pass.Status.String(),
		"portal_url", pass.PortalURL,
		"errors", len(pass.Errors),
	)
	return pass, nil
}

func openPortal(ctx context.Context, deps Deps, url string) error {
	deps.Bus.Publish(event.NewPortalOpeningEvent(url))
	if err := deps.Opener.Open(ctx, url); err != nil {
		return err
	}
	deps.Bus.Publish(event.NewPortalOpenedEvent(url))
	return nil
}

func withDefaults(deps Deps, opts Options) (Deps, Options, error) {
	if deps.Platform == nil {
		return deps, opts, errors.NewSetupError("platform configuration is required", nil).WithComponent("engine")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}

	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	if deps.Runner == nil {
		deps.Runner = &shell.System{Timeout: opts.Timeout}
	}
	if deps.NewClient == nil {
		deps.NewClient = func(timeout time.Duration) (netclient.NetworkClient, error) {
			return netclient.New(timeout)
		}
	}
	if deps.Opener == nil {
		deps.Opener = opener.NewCommand(deps.Platform.OpenCommand, deps.Runner)
	}
	if deps.Wifi == nil {
		deps.Wifi = wifi.NewNetworksetup(deps.Runner)
	}
	if deps.Cancel == nil {
		deps.Cancel = detect.NewCancelFlag()
	}
	if deps.Sleep == nil {
		deps.Sleep = wifi.Sleep
	}
	return deps, opts, nil
}

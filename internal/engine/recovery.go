package engine

import (
	"context"

	"github.com/kazu728/reauthfi/internal/detect"
	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/logging"
)

// recovery power-cycles the Wi-Fi interface and reruns detection once.
type recovery struct {
	deps Deps
	opts Options
	log  *logging.Logger
}

func newRecovery(deps Deps, opts Options) *recovery {
	return &recovery{
		deps: deps,
		opts: opts,
		log:  deps.Logger.WithPhase("recovery"),
	}
}

// attempt returns the pass to report and whether a retry ran. When the
// reset cannot be performed, or the run was canceled, the original pass is
// returned unchanged so its diagnostics reach the user. The retry's outcome
// is final.
func (r *recovery) attempt(ctx context.Context, original detect.PassResult) (detect.PassResult, bool, error) {
	if !r.opts.Recovery {
		r.log.Debug("recovery disabled")
		return original, false, nil
	}
	if r.deps.Cancel.IsSet() {
		r.log.Info("recovery skipped, run canceled")
		return original, false, nil
	}
	if !r.deps.Platform.SupportsWifiReset {
		r.log.Debug("wifi reset unsupported", "platform", r.deps.Platform.Name)
		return original, false, nil
	}

	device, err := r.deps.Wifi.DiscoverDevice(ctx)
	if err != nil {
		r.log.Warn("wifi device not found", "error", err)
		return original, false, nil
	}

	r.log.Info("resetting wifi", "device", device)
	r.deps.Bus.Publish(event.NewWifiResetStartedEvent(device))

	if err := r.deps.Wifi.Reset(ctx, device); err != nil {
		r.log.Warn("wifi reset failed", "device", device, "error", err)
		r.deps.Bus.Publish(event.NewWifiResetFailedEvent(device, err))
		return original, false, nil
	}

	r.deps.Bus.Publish(event.NewWifiWaitingEvent(r.opts.ReconnectDelay))
	if err := r.deps.Sleep(ctx, r.opts.ReconnectDelay); err != nil {
		r.log.Warn("reconnect wait interrupted", "error", err)
		return original, false, nil
	}

	retry, err := runPass(ctx, r.deps, r.opts, "retry")
	if err != nil {
		return detect.PassResult{}, true, err
	}
	return retry, true, nil
}

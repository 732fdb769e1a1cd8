package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/logging"
	"github.com/kazu728/reauthfi/internal/netclient"
	"github.com/kazu728/reauthfi/internal/platform"
	"github.com/kazu728/reauthfi/internal/shell"
)

// Strategy names.
const (
	StrategyStandard = "standard"
	StrategyGateway  = "gateway"
)

// canceledIssue is the sole diagnostic of a pass interrupted by the user.
const canceledIssue = "canceled"

// ResultKind enumerates strategy verdicts.
type ResultKind int

const (
	NoPortalDetected ResultKind = iota
	PortalFound
	NetworkIssues
)

func (k ResultKind) String() string {
	switch k {
	case NoPortalDetected:
		return "no_portal"
	case PortalFound:
		return "portal_found"
	case NetworkIssues:
		return "network_issues"
	default:
		return "unknown"
	}
}

// Result is the verdict of one strategy.
type Result struct {
	Kind      ResultKind
	PortalURL string
	Errors    []string
}

// Tracker wraps a blocking probe, typically to draw progress while it runs.
// It must call run exactly once.
type Tracker func(label string, run func())

// Env is everything a strategy needs for one pass. A fresh Env, with a
// fresh Client, is built for every pass.
type Env struct {
	Config  *platform.Config
	Client  netclient.NetworkClient
	Runner  shell.Runner
	Cancel  *CancelFlag
	Timeout time.Duration
	Bus     *event.Bus
	Logger  *logging.Logger
	Track   Tracker
}

func (e *Env) logger() *logging.Logger {
	if e.Logger == nil {
		return logging.NopLogger()
	}
	return e.Logger
}

// Strategy probes a set of targets and reports a single verdict.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, env *Env) Result
}

// StandardURLDetection probes the platform's well-known connectivity-check
// endpoints.
type StandardURLDetection struct{}

// Name implements Strategy.
func (StandardURLDetection) Name() string { return StrategyStandard }

// Detect implements Strategy. An empty endpoint list yields NoPortalDetected.
func (StandardURLDetection) Detect(ctx context.Context, env *Env) Result {
	endpoints := env.Config.DetectionEndpoints
	if len(endpoints) == 0 {
		return Result{Kind: NoPortalDetected}
	}

	targets := make([]Target, 0, len(endpoints))
	for _, ep := range endpoints {
		targets = append(targets, Target{
			Name:           ep.Name,
			URL:            ep.URL,
			ExpectedStatus: ep.ExpectedStatus,
		})
	}

	env.Bus.Publish(event.NewStrategyStartedEvent(StrategyStandard, len(targets)))
	return runDetection(ctx, targets, env)
}

// runDetection probes targets in order. A portal ends the run immediately;
// any expected success makes the verdict NoPortalDetected regardless of
// the other targets' diagnostics.
func runDetection(ctx context.Context, targets []Target, env *Env) Result {
	log := env.logger()

	var issues []string
	healthy := false

	for _, target := range targets {
		if env.Cancel.IsSet() {
			log.Info("detection canceled", "next_target", target.Name)
			return Result{Kind: NetworkIssues, Errors: []string{canceledIssue}}
		}

		env.Bus.Publish(event.NewProbeStartedEvent(target.Name, target.URL))
		outcome := probe(ctx, target, env)
		publishOutcome(env, target, outcome)

		log.Debug("probe finished",
			"target", target.Name,
			"url", target.URL,
			"outcome", outcome.Kind.String(),
			"status", outcome.Status,
			"message", outcome.Message,
			"error", outcome.Err,
		)

		switch outcome.Kind {
		case OutcomePortal:
			log.Info("portal detected", "target", target.Name, "portal_url", outcome.PortalURL)
			return Result{Kind: PortalFound, PortalURL: outcome.PortalURL}
		case OutcomeIssue:
			issues = append(issues, outcome.Message)
		case OutcomeMismatch:
			issues = append(issues, fmt.Sprintf("%s: status %d", target.Name, outcome.Status))
		case OutcomeExpectedOK:
			healthy = true
		}
	}

	switch {
	case healthy:
		return Result{Kind: NoPortalDetected}
	case len(issues) > 0:
		return Result{Kind: NetworkIssues, Errors: issues}
	default:
		return Result{Kind: NoPortalDetected}
	}
}

// probe issues one request and classifies it. The request context is
// bounded by env.Timeout but otherwise derived from ctx.
func probe(ctx context.Context, target Target, env *Env) Outcome {
	var outcome Outcome
	run := func() {
		reqCtx, cancel := context.WithTimeout(ctx, env.Timeout)
		defer cancel()

		resp, err := env.Client.Get(reqCtx, target.URL)
		if err != nil {
			outcome = ClassifyError(target, err, env.Timeout)
			return
		}
		outcome = ClassifyHTTP(target, resp)
	}

	if env.Track != nil {
		env.Track(target.Name, run)
	} else {
		run()
	}
	return outcome
}

func publishOutcome(env *Env, target Target, outcome Outcome) {
	if env.Bus == nil {
		return
	}

	ev := event.NewProbeFinishedEvent(target.Name, target.URL, target.AllowMetaRefresh, eventOutcome(outcome.Kind))
	ev.PortalURL = outcome.PortalURL
	ev.Status = outcome.Status
	ev.Message = outcome.Message
	ev.Timeout = env.Timeout
	switch outcome.Failure {
	case FailureTimeout:
		ev.Failure = event.FailureTimeout
	case FailureConnect:
		ev.Failure = event.FailureConnect
	case FailureBody:
		ev.Failure = event.FailureBody
	case FailureOther:
		ev.Failure = event.FailureOther
		if outcome.Err != nil {
			ev.Detail = outcome.Err.Error()
		}
	}
	env.Bus.Publish(ev)
}

func eventOutcome(kind OutcomeKind) string {
	switch kind {
	case OutcomePortal:
		return event.OutcomePortal
	case OutcomeExpectedOK:
		return event.OutcomeOK
	case OutcomeIssue:
		return event.OutcomeIssue
	default:
		return event.OutcomeMismatch
	}
}

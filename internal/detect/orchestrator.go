package detect

import "context"

// Status is the overall verdict of a detection pass.
type Status int

const (
	// StatusCompleted means a portal was found or connectivity was confirmed.
	StatusCompleted Status = iota
	// StatusNetworkNotReady means no strategy could reach a verdict.
	StatusNetworkNotReady
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusNetworkNotReady:
		return "network_not_ready"
	default:
		return "unknown"
	}
}

// PassResult is the aggregated outcome of running every strategy once.
type PassResult struct {
	Status    Status
	PortalURL string
	Errors    []string
}

// PortalFound reports whether the pass identified a portal.
func (p PassResult) PortalFound() bool {
	return p.PortalURL != ""
}

// Priority returns the strategies in the order they are tried.
func Priority(gatewayFirst bool) []Strategy {
	if gatewayFirst {
		return []Strategy{GatewayDetection{}, StandardURLDetection{}}
	}
	return []Strategy{StandardURLDetection{}, GatewayDetection{}}
}

// Orchestrator runs strategies in priority order and aggregates their
// results into a PassResult.
type Orchestrator struct {
	strategies []Strategy
	env        *Env
}

// NewOrchestrator creates an Orchestrator over the given strategies.
func NewOrchestrator(env *Env, strategies ...Strategy) *Orchestrator {
	return &Orchestrator{
		strategies: strategies,
		env:        env,
	}
}

// Detect runs one pass. The first PortalFound ends the pass. Otherwise any
// NoPortalDetected makes the pass Completed, and NetworkIssues from every
// strategy make it NetworkNotReady with the concatenated diagnostics.
func (o *Orchestrator) Detect(ctx context.Context) PassResult {
	log := o.env.logger()

	var issues []string
	success := false

	for _, strategy := range o.strategies {
		env := *o.env
		env.Logger = log.WithStrategy(strategy.Name())

		result := strategy.Detect(ctx, &env)
		env.Logger.Debug("strategy finished",
			"result", result.Kind.String(),
			"errors", len(result.Errors),
		)

		switch result.Kind {
		case PortalFound:
			return PassResult{Status: StatusCompleted, PortalURL: result.PortalURL}
		case NetworkIssues:
			issues = append(issues, result.Errors...)
		case NoPortalDetected:
			success = true
		}
	}

	if success || len(issues) == 0 {
		return PassResult{Status: StatusCompleted}
	}
	return PassResult{Status: StatusNetworkNotReady, Errors: issues}
}

package detect

import (
	"context"
	"fmt"

	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/event"
	"github.com/kazu728/reauthfi/internal/platform"
	"github.com/kazu728/reauthfi/internal/shell"
)

// gatewayIssue is the sole diagnostic when the default gateway is unknown.
const gatewayIssue = "gateway_ip"

// GatewayIP runs the platform's gateway command and returns the first
// capture group of its pattern. Runner failures are returned as-is; output
// without a match yields a NotFoundError.
func GatewayIP(ctx context.Context, cfg *platform.Config, runner shell.Runner) (string, error) {
	if len(cfg.GatewayCommand) == 0 || cfg.GatewayPattern == nil {
		return "", errors.NewNotFoundError("gateway_ip", "no gateway command configured")
	}

	out, err := runner.Run(ctx, cfg.GatewayCommand...)
	if err != nil {
		return "", err
	}

	m := cfg.GatewayPattern.FindStringSubmatch(out)
	if len(m) < 2 || m[1] == "" {
		return "", errors.NewNotFoundError("gateway_ip", shell.String(cfg.GatewayCommand))
	}
	return m[1], nil
}

// GatewayDetection probes paths on the default gateway, where many portals
// serve their login page or a meta refresh to it.
type GatewayDetection struct{}

// Name implements Strategy.
func (GatewayDetection) Name() string { return StrategyGateway }

// Detect implements Strategy.
func (GatewayDetection) Detect(ctx context.Context, env *Env) Result {
	if env.Cancel.IsSet() {
		return Result{Kind: NetworkIssues, Errors: []string{canceledIssue}}
	}

	log := env.logger()

	ip, err := GatewayIP(ctx, env.Config, env.Runner)
	if err != nil {
		log.Warn("gateway lookup failed", "command", shell.String(env.Config.GatewayCommand), "error", err)
		env.Bus.Publish(event.NewGatewayFailedEvent(err))
		return Result{Kind: NetworkIssues, Errors: []string{gatewayIssue}}
	}

	log.Debug("gateway resolved", "ip", ip)
	env.Bus.Publish(event.NewGatewayResolvedEvent(ip))

	targets := make([]Target, 0, len(env.Config.GatewayPaths))
	for _, path := range env.Config.GatewayPaths {
		targets = append(targets, Target{
			Name:             "Gateway" + path,
			URL:              fmt.Sprintf("http://%s%s", ip, path),
			AllowMetaRefresh: true,
		})
	}

	env.Bus.Publish(event.NewStrategyStartedEvent(StrategyGateway, len(targets)))
	return runDetection(ctx, targets, env)
}

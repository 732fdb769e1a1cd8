package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier such as "probe.finished".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeRunStarted       = "run.started"
	TypeStrategyStarted  = "strategy.started"
	TypeGatewayResolved  = "gateway.resolved"
	TypeGatewayFailed    = "gateway.failed"
	TypeProbeStarted     = "probe.started"
	TypeProbeFinished    = "probe.finished"
	TypePortalFound      = "portal.found"
	TypePortalOpening    = "portal.opening"
	TypePortalOpened     = "portal.opened"
	TypeNoPortal         = "detection.clear"
	TypeWifiResetStarted = "wifi.reset_started"
	TypeWifiResetFailed  = "wifi.reset_failed"
	TypeWifiWaiting      = "wifi.waiting"
	TypeNetworkNotReady  = "network.not_ready"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Detection Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted once when the engine begins a run.
type RunStartedEvent struct {
	baseEvent
	Platform     string
	GatewayFirst bool
}

// NewRunStartedEvent creates a RunStartedEvent.
func NewRunStartedEvent(platform string, gatewayFirst bool) RunStartedEvent {
	return RunStartedEvent{
		baseEvent:    newBaseEvent(TypeRunStarted),
		Platform:     platform,
		GatewayFirst: gatewayFirst,
	}
}

// StrategyStartedEvent is emitted when a strategy starts probing its targets.
type StrategyStartedEvent struct {
	baseEvent
	Strategy    string
	TargetCount int
}

// NewStrategyStartedEvent creates a StrategyStartedEvent.
func NewStrategyStartedEvent(strategy string, targetCount int) StrategyStartedEvent {
	return StrategyStartedEvent{
		baseEvent:   newBaseEvent(TypeStrategyStarted),
		Strategy:    strategy,
		TargetCount: targetCount,
	}
}

// GatewayResolvedEvent carries the default gateway address.
type GatewayResolvedEvent struct {
	baseEvent
	IP string
}

// NewGatewayResolvedEvent creates a GatewayResolvedEvent.
func NewGatewayResolvedEvent(ip string) GatewayResolvedEvent {
	return GatewayResolvedEvent{
		baseEvent: newBaseEvent(TypeGatewayResolved),
		IP:        ip,
	}
}

// GatewayFailedEvent is emitted when the default gateway could not be resolved.
type GatewayFailedEvent struct {
	baseEvent
	Err error
}

// NewGatewayFailedEvent creates a GatewayFailedEvent.
func NewGatewayFailedEvent(err error) GatewayFailedEvent {
	return GatewayFailedEvent{
		baseEvent: newBaseEvent(TypeGatewayFailed),
		Err:       err,
	}
}

// ProbeStartedEvent is emitted before a single target is requested.
type ProbeStartedEvent struct {
	baseEvent
	Target string
	URL    string
}

// NewProbeStartedEvent creates a ProbeStartedEvent.
func NewProbeStartedEvent(target, url string) ProbeStartedEvent {
	return ProbeStartedEvent{
		baseEvent: newBaseEvent(TypeProbeStarted),
		Target:    target,
		URL:       url,
	}
}

// Probe outcome names carried by ProbeFinishedEvent.Outcome.
const (
	OutcomePortal   = "portal"
	OutcomeOK       = "ok"
	OutcomeMismatch = "mismatch"
	OutcomeIssue    = "issue"
)

// Probe failure names carried by ProbeFinishedEvent.Failure.
const (
	FailureTimeout = "timeout"
	FailureConnect = "connect"
	FailureBody    = "body"
	FailureOther   = "other"
)

// ProbeFinishedEvent reports how a single target was classified.
type ProbeFinishedEvent struct {
	baseEvent
	Target string
	URL    string
	// Tolerant marks gateway-relative targets whose failures are expected
	// on networks without a portal.
	Tolerant  bool
	Outcome   string
	PortalURL string
	Status    int
	// Message is the diagnostic recorded for issues and mismatches.
	Message string
	Failure string
	// Detail is the raw transport error text for FailureOther.
	Detail  string
	Timeout time.Duration
}

// NewProbeFinishedEvent creates a ProbeFinishedEvent. Callers fill in the
// outcome-specific fields.
func NewProbeFinishedEvent(target, url string, tolerant bool, outcome string) ProbeFinishedEvent {
	return ProbeFinishedEvent{
		baseEvent: newBaseEvent(TypeProbeFinished),
		Target:    target,
		URL:       url,
		Tolerant:  tolerant,
		Outcome:   outcome,
	}
}

// PortalFoundEvent is emitted once a detection pass identifies a portal.
type PortalFoundEvent struct {
	baseEvent
	URL string
}

// NewPortalFoundEvent creates a PortalFoundEvent.
func NewPortalFoundEvent(url string) PortalFoundEvent {
	return PortalFoundEvent{
		baseEvent: newBaseEvent(TypePortalFound),
		URL:       url,
	}
}

// PortalOpeningEvent is emitted before the portal URL is handed to the opener.
type PortalOpeningEvent struct {
	baseEvent
	URL string
}

// NewPortalOpeningEvent creates a PortalOpeningEvent.
func NewPortalOpeningEvent(url string) PortalOpeningEvent {
	return PortalOpeningEvent{
		baseEvent: newBaseEvent(TypePortalOpening),
		URL:       url,
	}
}

// PortalOpenedEvent is emitted after the opener succeeded.
type PortalOpenedEvent struct {
	baseEvent
	URL string
}

// NewPortalOpenedEvent creates a PortalOpenedEvent.
func NewPortalOpenedEvent(url string) PortalOpenedEvent {
	return PortalOpenedEvent{
		baseEvent: newBaseEvent(TypePortalOpened),
		URL:       url,
	}
}

// NoPortalEvent is emitted when a pass completes without finding a portal.
type NoPortalEvent struct {
	baseEvent
}

// NewNoPortalEvent creates a NoPortalEvent.
func NewNoPortalEvent() NoPortalEvent {
	return NoPortalEvent{baseEvent: newBaseEvent(TypeNoPortal)}
}

// -----------------------------------------------------------------------------
// Recovery Events
// -----------------------------------------------------------------------------

// WifiResetStartedEvent is emitted before the Wi-Fi interface is power-cycled.
type WifiResetStartedEvent struct {
	baseEvent
	Device string
}

// NewWifiResetStartedEvent creates a WifiResetStartedEvent.
func NewWifiResetStartedEvent(device string) WifiResetStartedEvent {
	return WifiResetStartedEvent{
		baseEvent: newBaseEvent(TypeWifiResetStarted),
		Device:    device,
	}
}

// WifiResetFailedEvent is emitted when the power cycle could not complete.
type WifiResetFailedEvent struct {
	baseEvent
	Device string
	Err    error
}

// NewWifiResetFailedEvent creates a WifiResetFailedEvent.
func NewWifiResetFailedEvent(device string, err error) WifiResetFailedEvent {
	return WifiResetFailedEvent{
		baseEvent: newBaseEvent(TypeWifiResetFailed),
		Device:    device,
		Err:       err,
	}
}

// WifiWaitingEvent is emitted while waiting for the interface to reconnect.
type WifiWaitingEvent struct {
	baseEvent
	Delay time.Duration
}

// NewWifiWaitingEvent creates a WifiWaitingEvent.
func NewWifiWaitingEvent(delay time.Duration) WifiWaitingEvent {
	return WifiWaitingEvent{
		baseEvent: newBaseEvent(TypeWifiWaiting),
		Delay:     delay,
	}
}

// NetworkNotReadyEvent carries the final diagnostics of a run that could
// neither find a portal nor confirm connectivity.
type NetworkNotReadyEvent struct {
	baseEvent
	Errors []string
}

// NewNetworkNotReadyEvent creates a NetworkNotReadyEvent.
func NewNetworkNotReadyEvent(errors []string) NetworkNotReadyEvent {
	return NetworkNotReadyEvent{
		baseEvent: newBaseEvent(TypeNetworkNotReady),
		Errors:    errors,
	}
}

// Package event provides the pub-sub bus that carries detection progress out
// of the engine.
//
// The detection strategies and the recovery controller publish events; the
// console renderer subscribes to them. Neither side knows about the other,
// which keeps terminal formatting out of the decision logic and lets tests
// assert on what happened without capturing stdout.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Detection:
//   - [RunStartedEvent], [StrategyStartedEvent]
//   - [GatewayResolvedEvent], [GatewayFailedEvent]
//   - [ProbeStartedEvent], [ProbeFinishedEvent]
//   - [PortalFoundEvent], [PortalOpeningEvent], [PortalOpenedEvent], [NoPortalEvent]
//
// Recovery:
//   - [WifiResetStartedEvent], [WifiResetFailedEvent], [WifiWaitingEvent]
//   - [NetworkNotReadyEvent]
//
// # Basic Usage
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypePortalFound, func(e event.Event) {
//	    found := e.(event.PortalFoundEvent)
//	    fmt.Println(found.URL)
//	})
//	bus.Publish(event.NewPortalFoundEvent("http://login.example/"))
package event

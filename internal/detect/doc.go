// Package detect decides whether the current network sits behind a captive
// portal.
//
// A detection pass runs a fixed list of strategies in priority order. Each
// strategy probes a handful of HTTP targets sequentially, classifies every
// response with [Classify], and folds the outcomes into a [Result]. The
// [Orchestrator] aggregates those results into a [PassResult].
//
// # Strategies
//
//   - [StandardURLDetection]: the OS vendors' connectivity-check URLs
//   - [GatewayDetection]: paths on the default gateway, which may answer with
//     a meta refresh to the login page
//
// # Classification
//
// [Classify] is a pure function over the recorded status, Location header
// and (optionally) body. [ClassifyHTTP] records those values from a live
// response, and [ClassifyError] turns transport failures into diagnostics.
// Probe failures never surface as Go errors; they become the diagnostic
// strings carried by [Result] and [PassResult].
//
// # Cancellation
//
// [CancelFlag] is polled before every probe. Requests already in flight run
// to completion under their own timeout and their outcome is discarded at
// the next check.
package detect

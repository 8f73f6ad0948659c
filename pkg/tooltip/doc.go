// Package tooltip positions a floating surface next to a trigger region.
//
// A Positioner is an explicit state machine with three states:
//
//	hidden ──enter──▶ pending ──delay elapsed──▶ visible
//	   ▲                 │                          │
//	   └──────leave──────┴───────────leave──────────┘
//
// Entering schedules activation through a Scheduler, even with a zero delay,
// so the surface is always mounted before it is measured. Leaving cancels any
// pending activation and hides immediately.
//
// While visible the Positioner subscribes to the Layout's resize and scroll
// notifications and recomputes the surface position on each. Every
// subscription is recorded in a Release handle and dropped on hide, unmount
// or reconfiguration.
//
// # Runtime boundary
//
// The package never talks to a browser directly. Hosts provide:
//
//   - Element: bounding-rect queries for the trigger
//   - Layout: scroll offsets, viewport size, resize/scroll subscriptions
//   - Overlay: the top-level mount point for surfaces
//   - Scheduler: cancellable delayed callbacks on the UI goroutine
//
// pkg/loop provides a production Scheduler, pkg/overlay an Overlay, and
// pkg/live a Layout fed by geometry reports from the browser. The
// tooltiptest subpackage provides deterministic fakes.
//
// # Concurrency
//
// A Positioner is not safe for concurrent use. All methods, and all
// Scheduler and Layout callbacks, must run on the same goroutine.
//
// # Failure semantics
//
// Nothing is returned to the host. Missing geometry makes ComputePosition a
// no-op and an unrecognized Side falls back to the top formula. Both are
// reported to the logger and the Observer as ErrGeometryUnavailable and
// ErrInvalidPlacement.
package tooltip

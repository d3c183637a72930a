// Package react implements the ReAct reasoning engine: an iterative
// think, decide-action, execute, observe, reflect loop bounded by a maximum
// step count. The loop terminates early when no further action is decided or
// when the goal check succeeds on the latest observation.
//
// Action execution resolves named actions against the global action registry
// first, so callers can extend a run's capabilities without touching the
// engine; unknown names fall back to the built-in canned behavior.
package react

// Package api defines the core contracts of the Corvid reasoning framework:
// the Engine interface every reasoning strategy implements, the closed
// Framework enum the dispatcher routes on, and the request/response types
// that cross the boundary.
package api

import (
	"context"

	"github.com/casualjim/corvid/events"
)

// Engine is one reasoning strategy. Process is the error boundary for a
// strategy: hook failures are wrapped in a *FrameworkError and returned
// alongside a partial Response that preserves whatever thought process was
// accumulated before the failure.
//
// ProcessStream runs the identical control flow but emits progress as it
// goes; the returned channel is closed when the run finishes. Cleanup
// discards any per-run working memory; engines also reset it at the start of
// each Process call, so Cleanup is only needed to release state eagerly.
type Engine interface {
	Framework() Framework
	Process(context.Context, Request) (Response, error)
	ProcessStream(context.Context, Request) (<-chan events.Event, error)
	Cleanup(context.Context) error
}

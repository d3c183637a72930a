package events

import "context"

// Hook receives typed callbacks for every event a reasoning run emits.
// Implementations must be safe for use from a goroutine other than the one
// that started the run.
type Hook interface {
	OnChunk(context.Context, Chunk)
	OnThought(context.Context, Thought)
	OnAction(context.Context, Action)
	OnResult(context.Context, Result)
	OnError(context.Context, Error)
	OnClose(context.Context)
}

// NoopHook is a Hook that ignores every event. Embed it to implement only
// the callbacks you care about.
type NoopHook struct{}

func (NoopHook) OnChunk(context.Context, Chunk)     {}
func (NoopHook) OnThought(context.Context, Thought) {}
func (NoopHook) OnAction(context.Context, Action)   {}
func (NoopHook) OnResult(context.Context, Result)   {}
func (NoopHook) OnError(context.Context, Error)     {}
func (NoopHook) OnClose(context.Context)            {}

// Dispatch forwards a single event to the matching hook callback.
func Dispatch(ctx context.Context, hook Hook, event Event) {
	switch evt := event.(type) {
	case Delim:
		// stream control only, hooks don't see boundaries
	case Chunk:
		hook.OnChunk(ctx, evt)
	case Thought:
		hook.OnThought(ctx, evt)
	case Action:
		hook.OnAction(ctx, evt)
	case Result:
		hook.OnResult(ctx, evt)
	case Error:
		hook.OnError(ctx, evt)
	}
}

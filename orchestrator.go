package corvid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/cot"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/internal/broker"
	"github.com/casualjim/corvid/pkg/slogx"
	"github.com/casualjim/corvid/pkg/uuidx"
	"github.com/casualjim/corvid/react"
	"github.com/casualjim/corvid/tot"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
)

var (
	// Name sets the orchestrator name used as event sender and broker topic.
	Name = opts.ForName[Orchestrator, string]("name")
	// WithReact replaces the ReAct engine.
	WithReact = opts.ForName[Orchestrator, api.Engine]("react")
	// WithChainOfThought replaces the chain of thought engine.
	WithChainOfThought = opts.ForName[Orchestrator, api.Engine]("chainOfThought")
	// WithTreeOfThoughts replaces the tree of thoughts engine.
	WithTreeOfThoughts = opts.ForName[Orchestrator, api.Engine]("treeOfThoughts")
	// WithSelector replaces the framework selector.
	WithSelector = opts.ForName[Orchestrator, Selector]("selector")
	// WithBroker replaces the event broker streamed events are published to.
	WithBroker = opts.ForName[Orchestrator, broker.Broker]("broker")
	// WithHook attaches an observer that receives every streamed event.
	WithHook = opts.ForName[Orchestrator, events.Hook]("hook")
)

// Orchestrator routes requests to a reasoning engine and falls back to an
// alternative engine when the primary one fails. At most one fallback
// attempt is made per request.
type Orchestrator struct {
	name           string
	react          api.Engine
	chainOfThought api.Engine
	treeOfThoughts api.Engine
	selector       Selector
	broker         broker.Broker
	hook           events.Hook
}

// New creates an orchestrator with all three reasoning engines registered
// under their defaults. Replace individual engines, the selector, or the
// broker through options.
func New(options ...opts.Option[Orchestrator]) *Orchestrator {
	orch := &Orchestrator{
		name:           "corvid",
		react:          react.New(),
		chainOfThought: cot.New(),
		treeOfThoughts: tot.New(),
		selector:       DefaultSelector(),
		broker:         broker.Local(),
		hook:           events.NoopHook{},
	}
	if err := opts.Apply(orch, options); err != nil {
		panic(err)
	}
	return orch
}

// engineFor maps a framework to its registered engine. A nil engine slot
// means the framework was explicitly disabled.
func (o *Orchestrator) engineFor(framework api.Framework) (api.Engine, error) {
	var engine api.Engine
	switch framework {
	case api.FrameworkReAct:
		engine = o.react
	case api.FrameworkChainOfThought:
		engine = o.chainOfThought
	case api.FrameworkTreeOfThoughts:
		engine = o.treeOfThoughts
	}
	if engine == nil {
		return nil, &api.UnavailableError{Framework: framework}
	}
	return engine, nil
}

// fallbackFor picks the framework to retry with after a failure. Chain of
// thought is the general fallback; when it was the one that failed the
// retry goes to ReAct instead.
func fallbackFor(failed api.Framework) api.Framework {
	if failed == api.FrameworkChainOfThought {
		return api.FrameworkReAct
	}
	return api.FrameworkChainOfThought
}

// failedFramework recovers which engine produced err. When the error does
// not carry framework context the selected framework is assumed.
func failedFramework(err error, selected api.Framework) api.Framework {
	var fwErr *api.FrameworkError
	if errors.As(err, &fwErr) {
		return fwErr.Framework
	}
	return selected
}

// Process selects a framework for the request, runs it, and stamps the
// response with the framework that produced it. When the primary framework
// fails, the fallback framework gets one attempt; its response records the
// original failure in metadata. When both fail, the combined failure is
// reported in the response body rather than as a Go error, so callers can
// inspect partial reasoning output.
func (o *Orchestrator) Process(ctx context.Context, req api.Request) (api.Response, error) {
	if req.Message == "" {
		return api.Response{}, errors.New("message is required")
	}

	selected := o.selector.Select(req.Message)
	engine, err := o.engineFor(selected)
	if err != nil {
		return api.Response{}, err
	}

	resp, primaryErr := engine.Process(ctx, req)
	if primaryErr == nil {
		resp.SetMeta(api.MetaFrameworkUsed, selected.String())
		return resp, nil
	}

	failed := failedFramework(primaryErr, selected)
	fallback := fallbackFor(failed)
	slog.WarnContext(ctx, "framework failed, attempting fallback",
		slogx.Stringer("framework", failed),
		slogx.Stringer("fallback", fallback),
		slogx.Error(primaryErr),
	)

	fbEngine, err := o.engineFor(fallback)
	if err != nil {
		return api.Response{}, fmt.Errorf("%s failed and fallback is unavailable: %w", failed, errors.Join(primaryErr, err))
	}

	fbResp, fbErr := fbEngine.Process(ctx, req)
	if fbErr != nil {
		return api.Response{
			RunID:     uuidx.New(),
			Error:     fmt.Sprintf("Multiple failures: %v -> %v", primaryErr, fbErr),
			Timestamp: strfmt.DateTime(time.Now()),
			ThoughtProcess: []string{
				primaryErr.Error(),
				fbErr.Error(),
			},
		}, nil
	}

	fbResp.SetMeta(api.MetaFrameworkUsed, fallback.String())
	fbResp.SetMeta(api.MetaIsFallback, true)
	fbResp.SetMeta(api.MetaOriginalError, primaryErr.Error())
	fbResp.SetMeta(api.MetaFallbackFramework, fallback.String())
	return fbResp, nil
}

// ProcessStream runs the selected framework in streaming mode. Every event
// is forwarded to the returned channel, published to the orchestrator's
// broker topic, and dispatched to the configured hook. A failure mid-stream
// triggers the same single fallback as Process; the fallback runs
// non-streaming and its outcome is emitted as the final event.
func (o *Orchestrator) ProcessStream(ctx context.Context, req api.Request) (<-chan events.Event, error) {
	if req.Message == "" {
		return nil, errors.New("message is required")
	}

	selected := o.selector.Select(req.Message)
	engine, err := o.engineFor(selected)
	if err != nil {
		return nil, err
	}

	upstream, err := engine.ProcessStream(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan events.Event, 10)
	topic := o.broker.Topic(ctx, o.name)

	go func() {
		defer close(out)
		defer o.hook.OnClose(ctx)

		emit := func(event events.Event) {
			if err := topic.Publish(ctx, event); err != nil {
				slog.WarnContext(ctx, "failed to publish event", slogx.Error(err))
			}
			events.Dispatch(ctx, o.hook, event)
			select {
			case out <- event:
			case <-ctx.Done():
			}
		}

		var failure *events.Error
		forward := func(event events.Event) {
			switch evt := event.(type) {
			case events.Error:
				failure = &evt
			case events.Result:
				if evt.Metadata == nil {
					evt.Metadata = make(map[string]any, 4)
				}
				evt.Metadata[api.MetaFrameworkUsed] = selected.String()
				emit(evt)
			default:
				emit(event)
			}
		}

		// the preamble shares the run ID the engine stamped on its events,
		// so subscribers see a single run per stream
		first, ok := <-upstream
		runID := uuidx.New()
		if ok {
			runID = events.RunID(first)
		}
		emit(events.Chunk{
			RunID:     runID,
			Sender:    o.name,
			Content:   fmt.Sprintf("reasoning with %s", selected),
			Timestamp: strfmt.DateTime(time.Now()),
		})
		if ok {
			forward(first)
			for event := range upstream {
				forward(event)
			}
		}
		if failure == nil {
			return
		}

		failed := failedFramework(failure.Err, selected)
		fallback := fallbackFor(failed)
		emit(events.Chunk{
			RunID:     failure.RunID,
			Sender:    o.name,
			Content:   fmt.Sprintf("%s failed, retrying with %s", failed, fallback),
			Timestamp: strfmt.DateTime(time.Now()),
		})

		fbEngine, err := o.engineFor(fallback)
		if err != nil {
			emit(events.Error{
				RunID:     failure.RunID,
				Sender:    o.name,
				Err:       errors.Join(failure.Err, err),
				Timestamp: strfmt.DateTime(time.Now()),
			})
			return
		}

		fbResp, fbErr := fbEngine.Process(ctx, req)
		if fbErr != nil {
			emit(events.Error{
				RunID:     failure.RunID,
				Sender:    o.name,
				Err:       fmt.Errorf("Multiple failures: %v -> %v", failure.Err, fbErr),
				Timestamp: strfmt.DateTime(time.Now()),
			})
			return
		}

		fbResp.SetMeta(api.MetaFrameworkUsed, fallback.String())
		fbResp.SetMeta(api.MetaIsFallback, true)
		fbResp.SetMeta(api.MetaOriginalError, failure.Err.Error())
		fbResp.SetMeta(api.MetaFallbackFramework, fallback.String())
		emit(events.Result{
			RunID:     fbResp.RunID,
			Sender:    fallback.String(),
			Answer:    fbResp.Answer,
			Metadata:  fbResp.Metadata,
			Timestamp: fbResp.Timestamp,
		})
	}()

	return out, nil
}

// Subscribe attaches a hook to the orchestrator's broker topic. Events from
// every run flow to the hook until the subscription is cancelled.
func (o *Orchestrator) Subscribe(ctx context.Context, hook events.Hook) (broker.Subscription, error) {
	return o.broker.Topic(ctx, o.name).Subscribe(ctx, hook)
}

// Cleanup releases the resources of every registered engine.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	var errs []error
	for _, engine := range []api.Engine{o.react, o.chainOfThought, o.treeOfThoughts} {
		if engine == nil {
			continue
		}
		if err := engine.Cleanup(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

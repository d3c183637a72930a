package react

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/pkg/uuidx"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// DefaultMaxSteps bounds the think/act/observe loop.
	DefaultMaxSteps = 10
	// DefaultMinConfidence is the acceptance floor for decided actions.
	DefaultMinConfidence = 0.7
)

// Step is one entry of the loop's working memory. A step is mutable while
// the engine is deciding on and executing its action; once its reflection is
// produced a fresh step takes over as current.
type Step struct {
	Thought     string
	Action      *api.Action
	Observation string
}

var _ api.Engine = (*Engine)(nil)

// Engine is the ReAct reasoning engine. The step list is working memory for
// one Process call: it is reset at the start of every call and dropped on
// Cleanup.
type Engine struct {
	maxSteps      int
	minConfidence float64
	decide        Decider
	execute       Executor
	reflect       Reflector
	goal          GoalChecker
	steps         []Step
}

var (
	// MaxSteps overrides the loop bound.
	MaxSteps = opts.ForName[Engine, int]("maxSteps")
	// MinConfidence overrides the action acceptance floor. A decided action
	// below the floor is treated as no action, ending the loop.
	MinConfidence = opts.ForName[Engine, float64]("minConfidence")
	// WithDecider replaces the action decision hook.
	WithDecider = opts.ForName[Engine, Decider]("decide")
	// WithExecutor replaces the action execution hook.
	WithExecutor = opts.ForName[Engine, Executor]("execute")
	// WithReflector replaces the reflection hook.
	WithReflector = opts.ForName[Engine, Reflector]("reflect")
	// WithGoalChecker replaces the goal check hook.
	WithGoalChecker = opts.ForName[Engine, GoalChecker]("goal")
)

// New creates a ReAct engine with the documented defaults.
func New(options ...opts.Option[Engine]) *Engine {
	engine := &Engine{
		maxSteps:      DefaultMaxSteps,
		minConfidence: DefaultMinConfidence,
		decide:        defaultDecider{},
		execute:       registryExecutor{},
		reflect:       defaultReflector{},
	}
	if err := opts.Apply(engine, options); err != nil {
		panic(err)
	}
	if engine.goal == nil {
		engine.goal = defaultGoalChecker{maxSteps: engine.maxSteps}
	}
	return engine
}

func (e *Engine) Framework() api.Framework {
	return api.FrameworkReAct
}

func (e *Engine) Process(ctx context.Context, req api.Request) (api.Response, error) {
	return e.process(ctx, req, nil)
}

// progressFn receives one human-readable line per loop transition.
type progressFn func(kind string, evt events.Event)

func (e *Engine) process(ctx context.Context, req api.Request, progress progressFn) (api.Response, error) {
	runID := uuidx.New()
	resp := api.Response{
		RunID:     runID,
		Timestamp: strfmt.DateTime(time.Now()),
	}

	e.steps = e.steps[:0]
	e.steps = append(e.steps, Step{Thought: fmt.Sprintf("Let's solve this step by step: %s", req.Message)})
	e.emitThought(runID, e.steps[0].Thought, progress)

	fail := func(err error) (api.Response, error) {
		resp.ThoughtProcess = thoughts(e.steps)
		resp.Actions = actions(e.steps)
		resp.Error = err.Error()
		return resp, api.NewFrameworkError(api.FrameworkReAct, err)
	}

	for len(e.steps) < e.maxSteps {
		current := &e.steps[len(e.steps)-1]

		act, err := e.decide.Decide(ctx, current, req.Message, req.Context)
		if err != nil {
			return fail(fmt.Errorf("action decision failed: %w", err))
		}
		if act != nil && act.Confidence < e.minConfidence {
			// not confident enough to act on, same as deciding nothing
			act = nil
		}
		if act == nil {
			break
		}
		current.Action = act
		e.emitAction(runID, *act, progress)

		observation, err := e.execute.Execute(ctx, *act, req.Context)
		if err != nil {
			return fail(fmt.Errorf("action %s failed: %w", act.Name, err))
		}
		current.Observation = observation
		e.emitObservation(runID, observation, progress)

		thought, err := e.reflect.Reflect(ctx, observation, req.Context)
		if err != nil {
			return fail(fmt.Errorf("reflection failed: %w", err))
		}
		e.steps = append(e.steps, Step{Thought: thought})
		e.emitThought(runID, thought, progress)

		reached, err := e.goal.Reached(ctx, e.steps, observation)
		if err != nil {
			return fail(fmt.Errorf("goal check failed: %w", err))
		}
		if reached {
			break
		}
	}

	resp.Answer = synthesize(e.steps)
	resp.ThoughtProcess = thoughts(e.steps)
	resp.Actions = actions(e.steps)
	resp.SetMeta("step_count", len(e.steps))
	return resp, nil
}

func (e *Engine) ProcessStream(ctx context.Context, req api.Request) (<-chan events.Event, error) {
	out := make(chan events.Event, 10)
	go func() {
		defer close(out)

		emit := func(evt events.Event) {
			select {
			case out <- evt:
			case <-ctx.Done():
			}
		}

		resp, err := e.process(ctx, req, func(_ string, evt events.Event) {
			emit(evt)
		})
		if err != nil {
			emit(events.Error{RunID: resp.RunID, Sender: e.Framework().String(), Err: err, Timestamp: strfmt.DateTime(time.Now())})
			return
		}
		emit(events.Result{
			RunID:     resp.RunID,
			Sender:    e.Framework().String(),
			Answer:    resp.Answer,
			Metadata:  resp.Metadata,
			Timestamp: strfmt.DateTime(time.Now()),
		})
	}()
	return out, nil
}

// Cleanup drops the working memory of the last run.
func (e *Engine) Cleanup(context.Context) error {
	e.steps = nil
	return nil
}

func (e *Engine) emitThought(runID uuid.UUID, thought string, progress progressFn) {
	if progress == nil {
		return
	}
	progress("thought", events.Thought{
		RunID:     runID,
		Sender:    e.Framework().String(),
		Content:   thought,
		Timestamp: strfmt.DateTime(time.Now()),
	})
}

func (e *Engine) emitAction(runID uuid.UUID, act api.Action, progress progressFn) {
	if progress == nil {
		return
	}
	args := ""
	if len(act.Args) > 0 {
		if b, err := json.Marshal(act.Args); err == nil {
			args = string(b)
		}
	}
	progress("action", events.Action{
		RunID:      runID,
		Sender:     e.Framework().String(),
		Name:       act.Name,
		Arguments:  args,
		Confidence: act.Confidence,
		Timestamp:  strfmt.DateTime(time.Now()),
	})
}

func (e *Engine) emitObservation(runID uuid.UUID, observation string, progress progressFn) {
	if progress == nil {
		return
	}
	progress("observation", events.Chunk{
		RunID:     runID,
		Sender:    e.Framework().String(),
		Content:   "observation: " + observation,
		Timestamp: strfmt.DateTime(time.Now()),
	})
}

func thoughts(steps []Step) []string {
	result := make([]string, len(steps))
	for i, step := range steps {
		result[i] = step.Thought
	}
	return result
}

func actions(steps []Step) []api.Action {
	var result []api.Action
	for _, step := range steps {
		if step.Action != nil {
			result = append(result, *step.Action)
		}
	}
	return result
}

func synthesize(steps []Step) string {
	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, step.Thought)
		if step.Action != nil {
			fmt.Fprintf(&b, "\n   Action: %s (confidence %.2f)", step.Action.Name, step.Action.Confidence)
		}
		if step.Observation != "" {
			fmt.Fprintf(&b, "\n   Observation: %s", step.Observation)
		}
	}
	return b.String()
}

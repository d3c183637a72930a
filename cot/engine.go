// Package cot implements the chain-of-thought reasoning engine: a fixed,
// ordered decomposition of the problem into steps that are executed
// sequentially and concatenated into a single answer. There is no branching
// and no iteration bound beyond the step list itself, so for a fixed input
// and fixed hooks the engine is fully deterministic.
package cot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/pkg/uuidx"
	"github.com/casualjim/corvid/provider"
	"github.com/casualjim/corvid/types"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
)

// Decomposer breaks the input message into an ordered list of step
// descriptions.
type Decomposer interface {
	Decompose(ctx context.Context, message string, cv types.ContextVars) ([]string, error)
}

// DecomposerFunc adapts a function to the Decomposer interface.
type DecomposerFunc func(ctx context.Context, message string, cv types.ContextVars) ([]string, error)

func (f DecomposerFunc) Decompose(ctx context.Context, message string, cv types.ContextVars) ([]string, error) {
	return f(ctx, message, cv)
}

// StepExecutor produces the result text for one step. Steps run strictly in
// order; later steps may depend on the framing established by earlier ones.
type StepExecutor interface {
	ExecuteStep(ctx context.Context, step string, message string, cv types.ContextVars) (string, error)
}

// StepExecutorFunc adapts a function to the StepExecutor interface.
type StepExecutorFunc func(ctx context.Context, step string, message string, cv types.ContextVars) (string, error)

func (f StepExecutorFunc) ExecuteStep(ctx context.Context, step string, message string, cv types.ContextVars) (string, error) {
	return f(ctx, step, message, cv)
}

var _ api.Engine = (*Engine)(nil)

// Engine is the chain-of-thought reasoning engine.
type Engine struct {
	decompose Decomposer
	execute   StepExecutor
}

var (
	// WithDecomposer replaces the decomposition hook.
	WithDecomposer = opts.ForName[Engine, Decomposer]("decompose")
	// WithStepExecutor replaces the step execution hook.
	WithStepExecutor = opts.ForName[Engine, StepExecutor]("execute")
)

// New creates a chain-of-thought engine with the built-in keyword-triggered
// decomposition and canned step execution.
func New(options ...opts.Option[Engine]) *Engine {
	engine := &Engine{
		decompose: DecomposerFunc(decompose),
		execute:   StepExecutorFunc(executeStep),
	}
	if err := opts.Apply(engine, options); err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Framework() api.Framework {
	return api.FrameworkChainOfThought
}

func (e *Engine) Process(ctx context.Context, req api.Request) (api.Response, error) {
	return e.process(ctx, req, nil)
}

func (e *Engine) process(ctx context.Context, req api.Request, progress func(step, result string)) (api.Response, error) {
	resp := api.Response{
		RunID:     uuidx.New(),
		Timestamp: strfmt.DateTime(time.Now()),
	}

	steps, err := e.decompose.Decompose(ctx, req.Message, req.Context)
	if err != nil {
		resp.Error = err.Error()
		return resp, api.NewFrameworkError(api.FrameworkChainOfThought, err)
	}

	results := make([]string, 0, len(steps))
	for _, step := range steps {
		result, err := e.execute.ExecuteStep(ctx, step, req.Message, req.Context)
		if err != nil {
			// abort remaining steps, keep what we have
			resp.Error = err.Error()
			return resp, api.NewFrameworkError(api.FrameworkChainOfThought, err)
		}
		results = append(results, result)
		resp.ThoughtProcess = append(resp.ThoughtProcess, fmt.Sprintf("Step: %s\nResult: %s", step, result))
		if progress != nil {
			progress(step, result)
		}
	}

	var answer strings.Builder
	for i, result := range results {
		if i > 0 {
			answer.WriteByte('\n')
		}
		fmt.Fprintf(&answer, "%d. %s", i+1, result)
	}

	resp.Answer = answer.String()
	resp.SetMeta("step_count", len(steps))
	resp.SetMeta("step_results", results)
	return resp, nil
}

func (e *Engine) ProcessStream(ctx context.Context, req api.Request) (<-chan events.Event, error) {
	out := make(chan events.Event, 10)
	go func() {
		defer close(out)

		runID := uuidx.New()
		emit := func(evt events.Event) {
			select {
			case out <- evt:
			case <-ctx.Done():
			}
		}

		emit(events.Delim{RunID: runID, Delim: "start"})
		resp, err := e.process(ctx, req, func(step, result string) {
			emit(events.Thought{
				RunID:     runID,
				Sender:    e.Framework().String(),
				Content:   fmt.Sprintf("Step: %s\nResult: %s", step, result),
				Timestamp: strfmt.DateTime(time.Now()),
			})
		})
		if err != nil {
			emit(events.Error{RunID: runID, Sender: e.Framework().String(), Err: err, Timestamp: strfmt.DateTime(time.Now())})
			return
		}
		emit(events.Result{
			RunID:     runID,
			Sender:    e.Framework().String(),
			Answer:    resp.Answer,
			Metadata:  resp.Metadata,
			Timestamp: strfmt.DateTime(time.Now()),
		})
		emit(events.Delim{RunID: runID, Delim: "end"})
	}()
	return out, nil
}

// Cleanup is a no-op: the engine keeps no state between runs.
func (e *Engine) Cleanup(context.Context) error {
	return nil
}

// decompose is the built-in keyword-triggered policy: understanding, solution
// development and application are always present, analysis steps join in for
// explanatory questions, and verification closes every chain.
func decompose(_ context.Context, message string, _ types.ContextVars) ([]string, error) {
	lower := strings.ToLower(message)

	steps := []string{"Understand the core problem and requirements"}
	if strings.Contains(lower, "why") || strings.Contains(lower, "how") || strings.Contains(lower, "explain") {
		steps = append(steps,
			"Analyze the underlying factors",
			"Identify the key components",
		)
	}
	steps = append(steps,
		"Develop a solution approach",
		"Apply the solution to the problem",
		"Verify the solution and check edge cases",
	)
	return steps, nil
}

func executeStep(_ context.Context, step string, message string, _ types.ContextVars) (string, error) {
	lower := strings.ToLower(step)
	switch {
	case strings.Contains(lower, "understand"):
		return fmt.Sprintf("Problem understood: %s", message), nil
	case strings.Contains(lower, "analyze"):
		return "Analysis complete: underlying factors mapped", nil
	case strings.Contains(lower, "identify"):
		return "Key components identified", nil
	case strings.Contains(lower, "develop"):
		return "Solution approach developed", nil
	case strings.Contains(lower, "apply"):
		return "Solution applied to the problem", nil
	case strings.Contains(lower, "verify"):
		return "Solution verified, edge cases covered", nil
	default:
		return fmt.Sprintf("Completed: %s", step), nil
	}
}

// GeneratorStepExecutor delegates step execution to an LLM provider.
func GeneratorStepExecutor(gen provider.Generator) StepExecutor {
	return StepExecutorFunc(func(ctx context.Context, step string, message string, cv types.ContextVars) (string, error) {
		out, err := gen.Complete(ctx, provider.Prompt{
			Instructions: "You execute one step of a reasoning chain. Answer concisely for the given step only.",
			Input:        fmt.Sprintf("Problem: %s\nStep: %s", message, step),
			Context:      cv,
		})
		if err != nil {
			return "", fmt.Errorf("step %q failed: %w", step, err)
		}
		return out, nil
	})
}

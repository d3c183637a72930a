package react

import (
	"context"
	"fmt"
	"strings"

	"github.com/casualjim/corvid/action"
	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/provider"
	"github.com/casualjim/corvid/types"
)

// Decider chooses the next action for the current step, or returns nil when
// no action is needed (which ends the loop).
type Decider interface {
	Decide(ctx context.Context, step *Step, message string, cv types.ContextVars) (*api.Action, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, step *Step, message string, cv types.ContextVars) (*api.Action, error)

func (f DeciderFunc) Decide(ctx context.Context, step *Step, message string, cv types.ContextVars) (*api.Action, error) {
	return f(ctx, step, message, cv)
}

// Executor runs a decided action and returns the observation text.
type Executor interface {
	Execute(ctx context.Context, act api.Action, cv types.ContextVars) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, act api.Action, cv types.ContextVars) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, act api.Action, cv types.ContextVars) (string, error) {
	return f(ctx, act, cv)
}

// Reflector produces the thought for the step that follows an observation.
type Reflector interface {
	Reflect(ctx context.Context, observation string, cv types.ContextVars) (string, error)
}

// ReflectorFunc adapts a function to the Reflector interface.
type ReflectorFunc func(ctx context.Context, observation string, cv types.ContextVars) (string, error)

func (f ReflectorFunc) Reflect(ctx context.Context, observation string, cv types.ContextVars) (string, error) {
	return f(ctx, observation, cv)
}

// GoalChecker decides whether the run can stop after an observation.
type GoalChecker interface {
	Reached(ctx context.Context, steps []Step, observation string) (bool, error)
}

// GoalCheckerFunc adapts a function to the GoalChecker interface.
type GoalCheckerFunc func(ctx context.Context, steps []Step, observation string) (bool, error)

func (f GoalCheckerFunc) Reached(ctx context.Context, steps []Step, observation string) (bool, error) {
	return f(ctx, steps, observation)
}

// ActionAnalyze is the built-in generic action name.
const ActionAnalyze = "analyze"

// defaultDecider produces a generic analyze action over the original
// message whenever the current step has no action yet.
type defaultDecider struct{}

func (defaultDecider) Decide(_ context.Context, step *Step, message string, _ types.ContextVars) (*api.Action, error) {
	if step.Action != nil {
		return nil, nil
	}
	return &api.Action{
		Name:       ActionAnalyze,
		Args:       map[string]any{"input": message},
		Confidence: 0.8,
	}, nil
}

// registryExecutor resolves the action name against the global registry,
// falling back to canned observations for unregistered names.
type registryExecutor struct{}

func (registryExecutor) Execute(ctx context.Context, act api.Action, cv types.ContextVars) (string, error) {
	if def, ok := action.Get(act.Name); ok {
		return def.Execute(ctx, act.Args, cv)
	}
	if act.Name == ActionAnalyze {
		input, _ := act.Args["input"].(string)
		return fmt.Sprintf("Analysis of '%s' complete", input), nil
	}
	return fmt.Sprintf("Action %s executed successfully", act.Name), nil
}

type defaultReflector struct{}

func (defaultReflector) Reflect(_ context.Context, observation string, _ types.ContextVars) (string, error) {
	return fmt.Sprintf("Based on %s, let's proceed with next step", observation), nil
}

// goalKeywords terminate the loop when they appear in an observation.
var goalKeywords = []string{"complete", "finished", "done", "solved"}

type defaultGoalChecker struct {
	maxSteps int
}

func (g defaultGoalChecker) Reached(_ context.Context, steps []Step, observation string) (bool, error) {
	if len(steps) >= g.maxSteps {
		return true, nil
	}
	lower := strings.ToLower(observation)
	for _, kw := range goalKeywords {
		if strings.Contains(lower, kw) {
			return true, nil
		}
	}
	return false, nil
}

// GeneratorReflector delegates reflection to an LLM provider.
func GeneratorReflector(gen provider.Generator) Reflector {
	return ReflectorFunc(func(ctx context.Context, observation string, cv types.ContextVars) (string, error) {
		out, err := gen.Complete(ctx, provider.Prompt{
			Instructions: "Given an observation from the previous action, state the next thought in one sentence.",
			Input:        observation,
			Context:      cv,
		})
		if err != nil {
			return "", fmt.Errorf("reflection failed: %w", err)
		}
		return out, nil
	})
}

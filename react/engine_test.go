package react

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/casualjim/corvid/action"
	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineFramework(t *testing.T) {
	assert.Equal(t, api.FrameworkReAct, New().Framework())
}

func TestEngineProcess(t *testing.T) {
	t.Run("analyze loop terminates after the first observation", func(t *testing.T) {
		engine := New()
		resp, err := engine.Process(context.Background(), api.Request{Message: "run diagnostics"})
		require.NoError(t, err)

		// one acting step plus the reflection that follows it
		assert.Equal(t, 2, resp.Metadata["step_count"])
		require.Len(t, resp.Actions, 1)
		assert.Equal(t, ActionAnalyze, resp.Actions[0].Name)
		assert.InDelta(t, 0.8, resp.Actions[0].Confidence, 1e-9)
		assert.Equal(t, map[string]any{"input": "run diagnostics"}, resp.Actions[0].Args)

		require.Len(t, resp.ThoughtProcess, 2)
		assert.Equal(t, "Let's solve this step by step: run diagnostics", resp.ThoughtProcess[0])
		assert.Contains(t, resp.Answer, "Analysis of 'run diagnostics' complete")
		assert.False(t, resp.Failed())
	})

	t.Run("low confidence actions end the loop", func(t *testing.T) {
		engine := New(
			WithDecider(DeciderFunc(func(context.Context, *Step, string, types.ContextVars) (*api.Action, error) {
				return &api.Action{Name: "guess", Confidence: 0.5}, nil
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "uncertain task"})
		require.NoError(t, err)
		assert.Empty(t, resp.Actions)
		assert.Equal(t, 1, resp.Metadata["step_count"])
	})

	t.Run("never exceeds max steps", func(t *testing.T) {
		engine := New(
			MaxSteps(3),
			WithDecider(DeciderFunc(func(_ context.Context, _ *Step, _ string, _ types.ContextVars) (*api.Action, error) {
				return &api.Action{Name: "probe", Confidence: 0.9}, nil
			})),
			WithExecutor(ExecutorFunc(func(_ context.Context, act api.Action, _ types.ContextVars) (string, error) {
				return "nothing conclusive yet", nil
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "keep probing"})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Metadata["step_count"])
		assert.Len(t, resp.Actions, 2)
	})

	t.Run("resolves registered actions", func(t *testing.T) {
		action.Add(action.Must(
			func(_ context.Context, args map[string]any, _ types.ContextVars) (string, error) {
				return fmt.Sprintf("pinged %v, done", args["host"]), nil
			},
			action.Name("ping"),
			action.Parameters("host", "string"),
		))
		t.Cleanup(func() { action.Del("ping") })

		engine := New(
			WithDecider(DeciderFunc(func(_ context.Context, step *Step, _ string, _ types.ContextVars) (*api.Action, error) {
				if step.Action != nil {
					return nil, nil
				}
				return &api.Action{Name: "ping", Args: map[string]any{"host": "db-1"}, Confidence: 0.9}, nil
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "check the database host"})
		require.NoError(t, err)
		assert.Contains(t, resp.Answer, "pinged db-1, done")
	})

	t.Run("unregistered actions get a canned observation", func(t *testing.T) {
		engine := New(
			WithDecider(DeciderFunc(func(_ context.Context, step *Step, _ string, _ types.ContextVars) (*api.Action, error) {
				if step.Action != nil {
					return nil, nil
				}
				return &api.Action{Name: "frobnicate", Confidence: 0.9}, nil
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "do the thing"})
		require.NoError(t, err)
		assert.Contains(t, resp.Answer, "Action frobnicate executed successfully")
	})

	t.Run("executor failure preserves the trail", func(t *testing.T) {
		engine := New(
			WithExecutor(ExecutorFunc(func(context.Context, api.Action, types.ContextVars) (string, error) {
				return "", errors.New("tool unreachable")
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "run diagnostics"})
		require.Error(t, err)

		var fwErr *api.FrameworkError
		require.ErrorAs(t, err, &fwErr)
		assert.Equal(t, api.FrameworkReAct, fwErr.Framework)
		assert.True(t, resp.Failed())
		require.Len(t, resp.ThoughtProcess, 1)
		require.Len(t, resp.Actions, 1)
	})
}

func TestEngineProcessStream(t *testing.T) {
	t.Run("emits the full loop and a result", func(t *testing.T) {
		engine := New()
		stream, err := engine.ProcessStream(context.Background(), api.Request{Message: "run diagnostics"})
		require.NoError(t, err)

		var thoughts, actions, chunks int
		var result *events.Result
		for event := range stream {
			switch e := event.(type) {
			case events.Thought:
				thoughts++
			case events.Action:
				actions++
				assert.Equal(t, ActionAnalyze, e.Name)
			case events.Chunk:
				chunks++
				assert.Contains(t, e.Content, "observation:")
			case events.Result:
				result = &e
			}
		}

		assert.Equal(t, 2, thoughts)
		assert.Equal(t, 1, actions)
		assert.Equal(t, 1, chunks)
		require.NotNil(t, result)
		assert.Equal(t, 2, result.Metadata["step_count"])
	})

	t.Run("emits an error event on failure", func(t *testing.T) {
		engine := New(
			WithReflector(ReflectorFunc(func(context.Context, string, types.ContextVars) (string, error) {
				return "", errors.New("reflector down")
			})),
		)

		stream, err := engine.ProcessStream(context.Background(), api.Request{Message: "run diagnostics"})
		require.NoError(t, err)

		var failure *events.Error
		for event := range stream {
			if e, ok := event.(events.Error); ok {
				failure = &e
			}
		}
		require.NotNil(t, failure)
		assert.ErrorContains(t, failure.Err, "reflector down")
	})
}

func TestDefaultGoalChecker(t *testing.T) {
	checker := defaultGoalChecker{maxSteps: 5}
	ctx := context.Background()

	t.Run("keyword observations reach the goal", func(t *testing.T) {
		for _, obs := range []string{"all Done here", "problem SOLVED", "task complete", "finished early"} {
			reached, err := checker.Reached(ctx, make([]Step, 1), obs)
			require.NoError(t, err)
			assert.True(t, reached, "observation %q", obs)
		}
	})

	t.Run("plain observations do not", func(t *testing.T) {
		reached, err := checker.Reached(ctx, make([]Step, 1), "still working on it")
		require.NoError(t, err)
		assert.False(t, reached)
	})

	t.Run("step budget reaches the goal", func(t *testing.T) {
		reached, err := checker.Reached(ctx, make([]Step, 5), "still working on it")
		require.NoError(t, err)
		assert.True(t, reached)
	})
}

func TestEngineCleanup(t *testing.T) {
	engine := New()
	_, err := engine.Process(context.Background(), api.Request{Message: "run diagnostics"})
	require.NoError(t, err)
	require.NoError(t, engine.Cleanup(context.Background()))
	assert.Nil(t, engine.steps)
}

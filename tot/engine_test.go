package tot

import (
	"context"
	"errors"
	"testing"

	"github.com/casualjim/corvid/api"
	"github.com/casualjim/corvid/events"
	"github.com/casualjim/corvid/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineFramework(t *testing.T) {
	assert.Equal(t, api.FrameworkTreeOfThoughts, New().Framework())
}

func TestEngineProcess(t *testing.T) {
	t.Run("defaults keep the root as answer", func(t *testing.T) {
		engine := New()
		resp, err := engine.Process(context.Background(), api.Request{Message: "compare the options"})
		require.NoError(t, err)

		// no default candidate ever outscores the root
		assert.Equal(t, "compare the options", resp.Answer)
		assert.Equal(t, []string{"compare the options"}, resp.ThoughtProcess)
		assert.Equal(t, 0, resp.Metadata["tree_depth"])
		assert.InDelta(t, 1.0, resp.Metadata["best_score"].(float64), 1e-9)
		assert.NotZero(t, resp.RunID)
		assert.False(t, resp.Failed())
	})

	t.Run("custom hooks drive the exploration", func(t *testing.T) {
		engine := New(
			MaxDepth(2),
			BeamWidth(2),
			MinScore(0.3),
			WithExpander(ExpanderFunc(func(_ context.Context, node *Node, _ types.ContextVars) ([]string, error) {
				if node.IsRoot() {
					return []string{"use a write-through cache", "shard the table"}, nil
				}
				return nil, nil
			})),
			WithScorer(ScorerFunc(func(_ context.Context, thought string, _ types.ContextVars) (float64, error) {
				if thought == "shard the table" {
					return 0.95, nil
				}
				return 0.6, nil
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "scale the database"})
		require.NoError(t, err)

		// both candidates were explored, neither outscored the root
		assert.Equal(t, "scale the database", resp.Answer)
		assert.Equal(t, 3, resp.Metadata["nodes_explored"])
		assert.Equal(t, 0, resp.Metadata["tree_depth"])
		assert.InDelta(t, 1.0, resp.Metadata["best_score"].(float64), 1e-9)
	})

	t.Run("two runs over the same input agree", func(t *testing.T) {
		engine := New()
		req := api.Request{Message: "explore migration strategies"}

		first, err := engine.Process(context.Background(), req)
		require.NoError(t, err)
		second, err := engine.Process(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first.Answer, second.Answer)
		assert.Equal(t, first.ThoughtProcess, second.ThoughtProcess)
		assert.Equal(t, first.Metadata["nodes_explored"], second.Metadata["nodes_explored"])
	})

	t.Run("hook failure yields a framework error and partial trail", func(t *testing.T) {
		engine := New(
			WithExpander(ExpanderFunc(func(context.Context, *Node, types.ContextVars) ([]string, error) {
				return nil, errors.New("model unavailable")
			})),
		)

		resp, err := engine.Process(context.Background(), api.Request{Message: "explore options"})
		require.Error(t, err)

		var fwErr *api.FrameworkError
		require.ErrorAs(t, err, &fwErr)
		assert.Equal(t, api.FrameworkTreeOfThoughts, fwErr.Framework)
		assert.True(t, resp.Failed())
		assert.Equal(t, []string{"explore options"}, resp.ThoughtProcess)
	})
}

func TestEngineProcessStream(t *testing.T) {
	t.Run("emits thoughts and a final result", func(t *testing.T) {
		engine := New(MaxDepth(2), BeamWidth(2))
		stream, err := engine.ProcessStream(context.Background(), api.Request{Message: "consider the tradeoffs"})
		require.NoError(t, err)

		var thoughts int
		var result *events.Result
		var delims []string
		for event := range stream {
			switch e := event.(type) {
			case events.Delim:
				delims = append(delims, e.Delim)
			case events.Thought:
				thoughts++
			case events.Result:
				result = &e
			}
		}

		assert.Equal(t, []string{"start", "end"}, delims)
		assert.Positive(t, thoughts)
		require.NotNil(t, result)
		assert.Equal(t, "consider the tradeoffs", result.Answer)
		assert.Contains(t, result.Metadata, "nodes_explored")
	})

	t.Run("emits an error event on failure", func(t *testing.T) {
		engine := New(
			WithScorer(ScorerFunc(func(context.Context, string, types.ContextVars) (float64, error) {
				return 0, errors.New("scorer down")
			})),
		)

		stream, err := engine.ProcessStream(context.Background(), api.Request{Message: "consider this"})
		require.NoError(t, err)

		var failure *events.Error
		for event := range stream {
			if e, ok := event.(events.Error); ok {
				failure = &e
			}
		}
		require.NotNil(t, failure)
		assert.ErrorContains(t, failure.Err, "scorer down")
	})
}

func TestEngineCleanup(t *testing.T) {
	engine := New()
	_, err := engine.Process(context.Background(), api.Request{Message: "anything"})
	require.NoError(t, err)
	require.NoError(t, engine.Cleanup(context.Background()))
	assert.Nil(t, engine.tree)
}

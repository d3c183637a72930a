package events

import (
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testRunID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id
}

func TestDelimJSON(t *testing.T) {
	runID := testRunID(t)
	in := Delim{RunID: runID, Delim: "start"}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "delim", gjson.GetBytes(data, "type").String())
	assert.Equal(t, runID.String(), gjson.GetBytes(data, "run_id").String())

	out, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestChunkJSON(t *testing.T) {
	runID := testRunID(t)
	in := Chunk{
		RunID:     runID,
		Sender:    "react",
		Content:   "observation: done",
		Timestamp: strfmt.DateTime(time.Now().UTC().Truncate(time.Millisecond)),
	}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "chunk", gjson.GetBytes(data, "type").String())

	out, err := FromJSON(data)
	require.NoError(t, err)
	chunk, ok := out.(Chunk)
	require.True(t, ok)
	assert.Equal(t, in.RunID, chunk.RunID)
	assert.Equal(t, in.Sender, chunk.Sender)
	assert.Equal(t, in.Content, chunk.Content)
	assert.Equal(t, in.Timestamp.String(), chunk.Timestamp.String())
}

func TestThoughtJSON(t *testing.T) {
	runID := testRunID(t)
	in := Thought{
		RunID:   runID,
		Sender:  "tree_of_thoughts",
		Content: "Another approach: cache the index",
		Score:   0.85,
		Depth:   2,
	}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "thought", gjson.GetBytes(data, "type").String())
	assert.InDelta(t, 0.85, gjson.GetBytes(data, "score").Float(), 1e-9)

	out, err := FromJSON(data)
	require.NoError(t, err)
	thought, ok := out.(Thought)
	require.True(t, ok)
	assert.Equal(t, in.Content, thought.Content)
	assert.InDelta(t, in.Score, thought.Score, 1e-9)
	assert.Equal(t, in.Depth, thought.Depth)
}

func TestActionJSON(t *testing.T) {
	runID := testRunID(t)
	in := Action{
		RunID:      runID,
		Sender:     "react",
		Name:       "analyze",
		Arguments:  `{"input":"run diagnostics"}`,
		Confidence: 0.8,
	}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "action", gjson.GetBytes(data, "type").String())
	assert.Equal(t, "run diagnostics", gjson.GetBytes(data, "arguments.input").String())

	out, err := FromJSON(data)
	require.NoError(t, err)
	act, ok := out.(Action)
	require.True(t, ok)
	assert.Equal(t, in.Name, act.Name)
	assert.Equal(t, in.Arguments, act.Arguments)
	assert.InDelta(t, in.Confidence, act.Confidence, 1e-9)
}

func TestResultJSON(t *testing.T) {
	runID := testRunID(t)
	in := Result{
		RunID:  runID,
		Sender: "chain_of_thought",
		Answer: "1. Problem understood",
		Metadata: map[string]any{
			"framework_used": "chain_of_thought",
		},
	}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "result", gjson.GetBytes(data, "type").String())
	assert.Equal(t, "chain_of_thought", gjson.GetBytes(data, "metadata.framework_used").String())

	out, err := FromJSON(data)
	require.NoError(t, err)
	res, ok := out.(Result)
	require.True(t, ok)
	assert.Equal(t, in.Answer, res.Answer)
	assert.Equal(t, "chain_of_thought", res.Metadata["framework_used"])
}

func TestErrorJSON(t *testing.T) {
	runID := testRunID(t)
	in := Error{
		RunID:  runID,
		Sender: "tree_of_thoughts",
		Err:    errors.New("expansion failed"),
	}

	data, err := ToJSON(in)
	require.NoError(t, err)
	assert.Equal(t, "error", gjson.GetBytes(data, "type").String())

	out, err := FromJSON(data)
	require.NoError(t, err)
	ee, ok := out.(Error)
	require.True(t, ok)
	require.Error(t, ee.Err)
	assert.Equal(t, "expansion failed", ee.Err.Error())
}

func TestFromJSONRejectsUnknownType(t *testing.T) {
	_, err := FromJSON([]byte(`{"type":"telemetry"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry")

	_, err = FromJSON([]byte(`{"content":"no type"}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsWrongType(t *testing.T) {
	var chunk Chunk
	err := chunk.UnmarshalJSON([]byte(`{"type":"thought","run_id":"018df5f7-0000-7000-8000-000000000000"}`))
	require.Error(t, err)
}

func TestUnmarshalRequiresRunID(t *testing.T) {
	var chunk Chunk
	err := chunk.UnmarshalJSON([]byte(`{"type":"chunk","content":"hi"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_id")
}

func TestRunIDAccessor(t *testing.T) {
	id := testRunID(t)
	for _, event := range []Event{
		Delim{RunID: id, Delim: "start"},
		Chunk{RunID: id, Content: "hi"},
		Thought{RunID: id, Content: "hmm"},
		Action{RunID: id, Name: "search"},
		Result{RunID: id, Answer: "42"},
		Error{RunID: id, Err: errors.New("boom")},
	} {
		assert.Equal(t, id, RunID(event))
	}
	assert.Equal(t, uuid.Nil, RunID(nil))
}

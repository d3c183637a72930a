package events

import (
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	delimJSON   = []byte(`{"type":"delim"}`)
	chunkJSON   = []byte(`{"type":"chunk"}`)
	thoughtJSON = []byte(`{"type":"thought"}`)
	actionJSON  = []byte(`{"type":"action"}`)
	resultJSON  = []byte(`{"type":"result"}`)
	errorJSON   = []byte(`{"type":"error"}`)
)

// Event is the interface implemented by everything a reasoning run can emit.
type Event interface {
	event()
}

// Delim marks a stream boundary, such as the start or end of one
// framework's output.
type Delim struct {
	RunID uuid.UUID `json:"run_id"`
	Delim string    `json:"delim"`
}

func (Delim) event() {}

// Chunk is a human-readable progress fragment.
type Chunk struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Chunk) event() {}

// Thought is one reasoning step. Score and Depth are meaningful for tree
// exploration; linear engines leave them at their zero values.
type Thought struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Content   string          `json:"content"`
	Score     float64         `json:"score,omitempty"`
	Depth     int             `json:"depth,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Thought) event() {}

// Action records a structured action an engine decided to take.
// Arguments is the JSON encoding of the action's argument mapping.
type Action struct {
	RunID      uuid.UUID       `json:"run_id"`
	Sender     string          `json:"sender,omitempty"`
	Name       string          `json:"name"`
	Arguments  string          `json:"arguments,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
	Timestamp  strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Action) event() {}

// Result carries the final answer of a run together with the metadata the
// dispatcher stamped on it.
type Result struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Answer    string          `json:"answer"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Result) event() {}

// Error is a failure event that preserves the run context it occurred in.
type Error struct {
	RunID     uuid.UUID       `json:"run_id"`
	Sender    string          `json:"sender,omitempty"`
	Err       error           `json:"error"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (Error) event() {}

func (e Error) Error() string {
	return fmt.Sprintf("run_id: %s, sender: %s, error: %v", e.RunID, e.Sender, e.Err)
}

// MarshalJSON implements custom JSON marshaling for Delim.
func (d Delim) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(delimJSON, "run_id", d.RunID.String())
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "delim", d.Delim)
}

// UnmarshalJSON implements custom JSON unmarshaling for Delim.
func (d *Delim) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "delim"); err != nil {
		return err
	}
	if err := parseRunID(data, &d.RunID); err != nil {
		return err
	}
	d.Delim = gjson.GetBytes(data, "delim").String()
	return nil
}

// MarshalJSON implements custom JSON marshaling for Chunk.
func (c Chunk) MarshalJSON() ([]byte, error) {
	result, err := marshalCommon(chunkJSON, c.RunID, c.Sender, c.Timestamp)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "content", c.Content)
}

// UnmarshalJSON implements custom JSON unmarshaling for Chunk.
func (c *Chunk) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "chunk"); err != nil {
		return err
	}
	if err := parseRunID(data, &c.RunID); err != nil {
		return err
	}
	c.Sender = gjson.GetBytes(data, "sender").String()
	c.Content = gjson.GetBytes(data, "content").String()
	return parseTimestamp(data, &c.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Thought.
func (t Thought) MarshalJSON() ([]byte, error) {
	result, err := marshalCommon(thoughtJSON, t.RunID, t.Sender, t.Timestamp)
	if err != nil {
		return nil, err
	}
	if result, err = sjson.SetBytes(result, "content", t.Content); err != nil {
		return nil, err
	}
	if result, err = sjson.SetBytes(result, "score", t.Score); err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "depth", t.Depth)
}

// UnmarshalJSON implements custom JSON unmarshaling for Thought.
func (t *Thought) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "thought"); err != nil {
		return err
	}
	if err := parseRunID(data, &t.RunID); err != nil {
		return err
	}
	t.Sender = gjson.GetBytes(data, "sender").String()
	t.Content = gjson.GetBytes(data, "content").String()
	t.Score = gjson.GetBytes(data, "score").Float()
	t.Depth = int(gjson.GetBytes(data, "depth").Int())
	return parseTimestamp(data, &t.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Action.
func (a Action) MarshalJSON() ([]byte, error) {
	result, err := marshalCommon(actionJSON, a.RunID, a.Sender, a.Timestamp)
	if err != nil {
		return nil, err
	}
	if result, err = sjson.SetBytes(result, "name", a.Name); err != nil {
		return nil, err
	}
	if a.Arguments != "" {
		if result, err = sjson.SetRawBytes(result, "arguments", []byte(a.Arguments)); err != nil {
			return nil, err
		}
	}
	return sjson.SetBytes(result, "confidence", a.Confidence)
}

// UnmarshalJSON implements custom JSON unmarshaling for Action.
func (a *Action) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "action"); err != nil {
		return err
	}
	if err := parseRunID(data, &a.RunID); err != nil {
		return err
	}
	a.Sender = gjson.GetBytes(data, "sender").String()
	a.Name = gjson.GetBytes(data, "name").String()
	if args := gjson.GetBytes(data, "arguments"); args.Exists() {
		a.Arguments = args.Raw
	}
	a.Confidence = gjson.GetBytes(data, "confidence").Float()
	return parseTimestamp(data, &a.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Result.
func (r Result) MarshalJSON() ([]byte, error) {
	result, err := marshalCommon(resultJSON, r.RunID, r.Sender, r.Timestamp)
	if err != nil {
		return nil, err
	}
	if result, err = sjson.SetBytes(result, "answer", r.Answer); err != nil {
		return nil, err
	}
	if r.Metadata != nil {
		mb, merr := json.Marshal(r.Metadata)
		if merr != nil {
			return nil, fmt.Errorf("failed to marshal result metadata: %w", merr)
		}
		result, err = sjson.SetRawBytes(result, "metadata", mb)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Result.
func (r *Result) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "result"); err != nil {
		return err
	}
	if err := parseRunID(data, &r.RunID); err != nil {
		return err
	}
	r.Sender = gjson.GetBytes(data, "sender").String()
	r.Answer = gjson.GetBytes(data, "answer").String()
	if meta := gjson.GetBytes(data, "metadata"); meta.Exists() {
		if err := json.Unmarshal([]byte(meta.Raw), &r.Metadata); err != nil {
			return fmt.Errorf("invalid result metadata: %w", err)
		}
	}
	return parseTimestamp(data, &r.Timestamp)
}

// MarshalJSON implements custom JSON marshaling for Error.
func (e Error) MarshalJSON() ([]byte, error) {
	result, err := marshalCommon(errorJSON, e.RunID, e.Sender, e.Timestamp)
	if err != nil {
		return nil, err
	}
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return sjson.SetBytes(result, "error", msg)
}

// UnmarshalJSON implements custom JSON unmarshaling for Error.
func (e *Error) UnmarshalJSON(data []byte) error {
	if err := checkEventType(data, "error"); err != nil {
		return err
	}
	if err := parseRunID(data, &e.RunID); err != nil {
		return err
	}
	e.Sender = gjson.GetBytes(data, "sender").String()
	if msg := gjson.GetBytes(data, "error").String(); msg != "" {
		e.Err = errors.New(msg)
	}
	return parseTimestamp(data, &e.Timestamp)
}

func marshalCommon(base []byte, runID uuid.UUID, sender string, ts strfmt.DateTime) ([]byte, error) {
	result, err := sjson.SetBytes(base, "run_id", runID.String())
	if err != nil {
		return nil, err
	}
	if sender != "" {
		if result, err = sjson.SetBytes(result, "sender", sender); err != nil {
			return nil, err
		}
	}
	if !ts.IsZero() {
		if result, err = sjson.SetBytes(result, "timestamp", ts.String()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func checkEventType(data []byte, want string) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != want {
		return fmt.Errorf("missing or invalid type, expected %q", want)
	}
	return nil
}

func parseRunID(data []byte, id *uuid.UUID) error {
	runID := gjson.GetBytes(data, "run_id")
	if !runID.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := id.UnmarshalText([]byte(runID.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}
	return nil
}

func parseTimestamp(data []byte, ts *strfmt.DateTime) error {
	raw := gjson.GetBytes(data, "timestamp")
	if !raw.Exists() || raw.String() == "" {
		return nil
	}
	parsed, err := strfmt.ParseDateTime(raw.String())
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	*ts = parsed
	return nil
}

// RunID returns the run the event belongs to.
func RunID(event Event) uuid.UUID {
	switch evt := event.(type) {
	case Delim:
		return evt.RunID
	case Chunk:
		return evt.RunID
	case Thought:
		return evt.RunID
	case Action:
		return evt.RunID
	case Result:
		return evt.RunID
	case Error:
		return evt.RunID
	default:
		return uuid.Nil
	}
}

// ToJSON serializes any event with its type marker.
func ToJSON(event Event) ([]byte, error) {
	switch evt := event.(type) {
	case Delim:
		return evt.MarshalJSON()
	case Chunk:
		return evt.MarshalJSON()
	case Thought:
		return evt.MarshalJSON()
	case Action:
		return evt.MarshalJSON()
	case Result:
		return evt.MarshalJSON()
	case Error:
		return evt.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}

// FromJSON deserializes an event based on its type marker.
func FromJSON(data []byte) (Event, error) {
	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() {
		return nil, fmt.Errorf("missing event type marker")
	}

	switch msgType.String() {
	case "delim":
		var evt Delim
		err := evt.UnmarshalJSON(data)
		return evt, err
	case "chunk":
		var evt Chunk
		err := evt.UnmarshalJSON(data)
		return evt, err
	case "thought":
		var evt Thought
		err := evt.UnmarshalJSON(data)
		return evt, err
	case "action":
		var evt Action
		err := evt.UnmarshalJSON(data)
		return evt, err
	case "result":
		var evt Result
		err := evt.UnmarshalJSON(data)
		return evt, err
	case "error":
		var evt Error
		err := evt.UnmarshalJSON(data)
		return evt, err
	default:
		return nil, fmt.Errorf("unknown event type %q", msgType.String())
	}
}

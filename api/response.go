package api

import (
	"github.com/casualjim/corvid/types"
	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Request is the input to a reasoning run. Message is required; Context is an
// open mapping handed through unchanged to every pluggable hook.
type Request struct {
	Message string            `json:"message"`
	Context types.ContextVars `json:"context,omitempty"`

	// Prevents unkeyed literals
	_ struct{}
}

// Action is a structured action an engine decided to take during a run.
// It is immutable once created.
type Action struct {
	Name       string         `json:"name"`
	Args       map[string]any `json:"args,omitempty"`
	Confidence float64        `json:"confidence"`
}

// Response is the result of one reasoning run. It is produced once per
// Process call and is not mutated afterwards by any component.
//
// ThoughtProcess is the audit trail of thoughts in the order they were
// produced; Actions lists every action taken across all steps, in order.
// Error is set only on failure paths: engines surface hook failures here
// rather than letting them escape Process.
type Response struct {
	RunID          uuid.UUID       `json:"run_id"`
	Answer         string          `json:"answer"`
	ThoughtProcess []string        `json:"thought_process,omitempty"`
	Actions        []Action        `json:"actions,omitempty"`
	Error          string          `json:"error,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	Timestamp      strfmt.DateTime `json:"timestamp,omitempty"`
}

// Metadata keys stamped by the dispatcher.
const (
	MetaFrameworkUsed     = "framework_used"
	MetaIsFallback        = "is_fallback"
	MetaOriginalError     = "original_error"
	MetaFallbackFramework = "fallback_framework"
)

// Failed reports whether the run ended on a failure path.
func (r Response) Failed() bool {
	return r.Error != ""
}

// SetMeta stores a metadata entry, allocating the map on first use.
func (r *Response) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any, 4)
	}
	r.Metadata[key] = value
}

// String returns a JSON representation of the response for logging.
func (r Response) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(b)
}

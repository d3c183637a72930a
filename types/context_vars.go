// Package types provides core type definitions used throughout the Corvid framework.
package types

import "github.com/goccy/go-json"

// ContextVars is a key-value store of caller supplied context. It is passed
// through unchanged to every pluggable hook (thought generation, scoring,
// action execution) so callers can thread arbitrary state into a reasoning
// run without the engines interpreting it.
//
// Thread safety: ContextVars is a map type and is not safe for concurrent
// modification. Engines never mutate it; callers that share one value across
// runs must synchronize their own writes.
type ContextVars map[string]any

// String returns a JSON representation of the context variables.
// If marshaling fails, it returns an empty string.
func (cv ContextVars) String() string {
	jsonData, err := json.Marshal(cv)
	if err != nil {
		return ""
	}
	return string(jsonData)
}

// Package provider abstracts the text-generation capability the reasoning
// engines can delegate their pluggable hooks to. The core treats a Generator
// as an opaque function from prompt to text; wire formats and retry policies
// belong to the implementations.
package provider

import (
	"context"

	"github.com/casualjim/corvid/types"
	"github.com/google/uuid"
)

// Prompt carries everything a Generator needs for one completion.
type Prompt struct {
	// RunID identifies the reasoning run this completion belongs to.
	RunID uuid.UUID

	// Instructions is the system prompt for the completion.
	Instructions string

	// Input is the user-visible text to complete against.
	Input string

	// Context is the caller supplied context, passed through unchanged.
	Context types.ContextVars

	// Prevents unkeyed literals
	_ struct{}
}

// Generator produces text from a prompt. Implementations typically perform
// network I/O; they must honor ctx cancellation.
type Generator interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f GeneratorFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

package action

import (
	"context"
	"fmt"
	"sort"

	"github.com/casualjim/corvid/pkg/stdx"
	"github.com/casualjim/corvid/types"
	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Func executes one action invocation. The args mapping carries the decoded
// arguments; cv is the caller supplied context, passed through unchanged.
// The returned string becomes the observation attached to the step.
type Func func(ctx context.Context, args map[string]any, cv types.ContextVars) (string, error)

// Definition describes a named action: its argument schema and the function
// that executes it. Parameters maps argument names to their JSON type.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]string
	Execute     Func
}

// ToNameAndSchema renders the definition's name and a JSON schema for its
// arguments, suitable for advertising the action to an LLM provider.
func (d Definition) ToNameAndSchema() (string, *jsonschema.Schema) {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}

	// ordered iteration keeps the rendered schema deterministic
	names := make([]string, 0, len(d.Parameters))
	for name := range d.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		schema.Properties.Set(name, &jsonschema.Schema{Type: d.Parameters[name]})
	}
	if len(names) > 0 {
		schema.Required = names
	}
	return d.Name, schema
}

// Option configures a Definition during construction.
type Option = opts.Option[Definition]

var (
	// Name sets the action's name.
	Name = opts.ForName[Definition, string]("Name")
	// Description sets the action's description.
	Description = opts.ForName[Definition, string]("Description")
)

// Parameters declares the action's argument names and their JSON types,
// given as alternating name, type pairs.
func Parameters(pairs ...string) Option {
	return opts.Type[Definition](func(o *Definition) error {
		if len(pairs)%2 != 0 {
			return fmt.Errorf("parameters require name, type pairs, got %d values", len(pairs))
		}
		o.Parameters = make(map[string]string, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			o.Parameters[pairs[i]] = pairs[i+1]
		}
		return nil
	})
}

// New creates a Definition from the provided function and options.
func New(fn Func, options ...Option) (Definition, error) {
	if fn == nil {
		return Definition{}, fmt.Errorf("action function is required")
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		return Definition{}, fmt.Errorf("action name is required")
	}
	def.Execute = fn
	return def, nil
}

// Must wraps New and panics on error. Useful for package-level definitions.
func Must(fn Func, options ...Option) Definition {
	return stdx.Must1(New(fn, options...))
}

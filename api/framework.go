package api

import "fmt"

// Framework identifies one of the reasoning strategies the dispatcher can
// route a request to. It is a closed enum: the zero value is invalid and
// every exported constant maps to exactly one engine, so dispatch can be an
// exhaustive switch instead of a string lookup.
type Framework uint8

const (
	// FrameworkReAct runs an iterative think/act/observe loop.
	FrameworkReAct Framework = iota + 1
	// FrameworkChainOfThought runs a fixed ordered decomposition.
	FrameworkChainOfThought
	// FrameworkTreeOfThoughts runs a bounded beam search over candidate thoughts.
	FrameworkTreeOfThoughts
)

const (
	reactName          = "react"
	chainOfThoughtName = "chain_of_thought"
	treeOfThoughtsName = "tree_of_thoughts"
)

// String returns the wire name of the framework.
func (f Framework) String() string {
	switch f {
	case FrameworkReAct:
		return reactName
	case FrameworkChainOfThought:
		return chainOfThoughtName
	case FrameworkTreeOfThoughts:
		return treeOfThoughtsName
	default:
		return fmt.Sprintf("framework(%d)", uint8(f))
	}
}

// IsValid reports whether f is one of the three known frameworks.
func (f Framework) IsValid() bool {
	return f >= FrameworkReAct && f <= FrameworkTreeOfThoughts
}

// ParseFramework converts a wire name back into a Framework.
func ParseFramework(name string) (Framework, error) {
	switch name {
	case reactName:
		return FrameworkReAct, nil
	case chainOfThoughtName:
		return FrameworkChainOfThought, nil
	case treeOfThoughtsName:
		return FrameworkTreeOfThoughts, nil
	default:
		return 0, fmt.Errorf("unknown reasoning framework %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Framework) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("cannot marshal invalid framework %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Framework) UnmarshalText(data []byte) error {
	parsed, err := ParseFramework(string(data))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

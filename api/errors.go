package api

import "fmt"

// FrameworkError attributes an engine failure to the framework that produced
// it. The dispatcher pattern-matches on this type to choose a fallback, so
// every engine wraps hook failures in one before returning.
type FrameworkError struct {
	Framework Framework
	Err       error
}

func (e *FrameworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Framework, e.Err)
}

func (e *FrameworkError) Unwrap() error {
	return e.Err
}

// NewFrameworkError wraps err with the framework it is attributed to.
// It returns nil when err is nil.
func NewFrameworkError(framework Framework, err error) error {
	if err == nil {
		return nil
	}
	return &FrameworkError{Framework: framework, Err: err}
}

// UnavailableError reports a dispatch to a framework that has no engine
// configured. It is not retried.
type UnavailableError struct {
	Framework Framework
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("reasoning framework %s is not available", e.Framework)
}

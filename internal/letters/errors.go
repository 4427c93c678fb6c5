package letters

import "fmt"

// OptionsError reports generation options that prevent any letter from being written.
type OptionsError struct {
	Message string
	Cause   error
}

func (e *OptionsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid letter options: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid letter options: %s", e.Message)
}

func (e *OptionsError) Unwrap() error {
	return e.Cause
}

// PanicError wraps a value recovered from a panicking composer.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("composer panicked: %v", e.Value)
}

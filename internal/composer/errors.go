package composer

import (
	"fmt"

	"github.com/jonathan/speak-out/internal/types"
)

// UnsupportedToneError is returned when a tone has no letter templates.
type UnsupportedToneError struct {
	Tone types.Tone
}

func (e *UnsupportedToneError) Error() string {
	return fmt.Sprintf("unsupported tone: %q", string(e.Tone))
}

// ValidationError represents a candidate record the composer cannot address.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

package options

import (
	"errors"
	"fmt"
)

// ErrCorruptFile is wrapped by Decode when a persisted document is not a JSON
// object or holds a value of the wrong type for a known option.
var ErrCorruptFile = errors.New("corrupt persisted options")

// UsageError reports an invalid combination of options or a value that
// cannot be parsed for its option's type.
type UsageError struct {
	Msg string
}

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptFile, fmt.Sprintf(format, args...))
}

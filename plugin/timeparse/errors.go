package timeparse

import (
	"errors"
	"fmt"
)

// ParseError is returned when no resolver rule recognizes an expression.
// It carries the original text so the caller can ask the user to rephrase;
// the resolver never guesses a default for ambiguous input.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not understand the time description: %q", e.Text)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

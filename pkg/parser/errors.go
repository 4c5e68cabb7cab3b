package parser

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput          = errors.New("inline text cannot be empty")
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")
)

// UnbalancedDelimiterError is returned when a delimiter has no closing pair
type UnbalancedDelimiterError struct {
	Delimiter string
}

func (e *UnbalancedDelimiterError) Error() string {
	return fmt.Sprintf("unmatched delimiter %q", e.Delimiter)
}

func (e *UnbalancedDelimiterError) Is(target error) bool {
	return target == ErrUnbalancedDelimiter
}

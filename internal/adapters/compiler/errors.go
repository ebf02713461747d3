package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow indicates a row with too few columns or an empty key
	ErrMalformedRow = errors.New("malformed registry row")

	// ErrNoSources indicates Compile was called without any input
	ErrNoSources = errors.New("no registry sources")
)

// SourceError ties a compilation failure to the source and line that caused it
type SourceError struct {
	Source string // Source name, usually the CSV file name
	Line   int    // 1-based line, 0 when the whole source failed
	Err    error
}

func (e *SourceError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

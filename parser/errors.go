package parser

import "fmt"

// SourceNotFoundError is returned when an archive or folder yields zero
// usable domain files. The source itself is invalid; there is nothing to
// retry.
type SourceNotFoundError struct {
	Source string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("no domain XML files found in %s", e.Source)
}

// ParseError is returned when a matched domain file is not well-formed
// XML. The whole ingestion run is considered failed; rows extracted
// before the error are discarded.
type ParseError struct {
	Member string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("malformed XML: %v", e.Err)
	}
	return fmt.Sprintf("malformed XML in %s: %v", e.Member, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

package parser

import "fmt"

// ErrorKind categorizes why a file could not be decoded.
type ErrorKind string

const (
	KindMalformed ErrorKind = "malformed content"
	KindEncoding  ErrorKind = "unsupported encoding"
	KindEmpty     ErrorKind = "empty file"
)

// ParseError reports a file that could not be decoded into rows/headers.
type ParseError struct {
	Filename string
	Kind     ErrorKind
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Cause())
}

// Cause describes the failure without the filename prefix, for callers
// that already name the file in their own diagnostics.
func (e *ParseError) Cause() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(filename string, kind ErrorKind, err error) *ParseError {
	return &ParseError{Filename: filename, Kind: kind, Err: err}
}

package gcode

import "fmt"

// ErrCode enumerates the input-error kinds spec.md section 4.1/7 names.
type ErrCode int

const (
	ErrNone ErrCode = iota
	ErrBadNumberFormat
	ErrUnterminatedVariable
	ErrUnsupportedFunction
	ErrMalformedCommand
	ErrUnknownCode
	ErrAxisMissingForProbe
	ErrSoftLimitExceeded
	ErrModalGroupConflict
)

// ParseError is the status a non-OK parse/execute step returns. A
// non-OK status leaves the machine model unchanged for the rest of the
// block, per spec.md section 4.1.
type ParseError struct {
	Code ErrCode
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("gcode: %s", e.Msg) }

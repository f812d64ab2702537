package dds

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure classes of a load. The typed
// errors below wrap these, so callers can match the class with errors.Is
// and pull the offending field out with errors.As.
var (
	ErrMalformedHeader   = errors.New("malformed header")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTruncatedData     = errors.New("truncated data")
)

// HeaderError reports a structurally invalid header: bad magic, wrong
// input length, or a required flag or capability that is missing.
type HeaderError struct {
	Field  string
	Value  uint32
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s: %s (value 0x%x)", e.Field, e.Reason, e.Value)
}

func (e *HeaderError) Unwrap() error { return ErrMalformedHeader }

// FormatError reports a compression format this package cannot handle.
// FourCC is set when the legacy tag path failed, DXGIFormat when the
// extended-header path failed; out-of-scope features set only Reason.
type FormatError struct {
	FourCC     string
	DXGIFormat uint32
	Reason     string
}

func (e *FormatError) Error() string {
	if e.FourCC != "" {
		return fmt.Sprintf("fourCC %q: %s", e.FourCC, e.Reason)
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// TruncatedError reports a payload shorter than the surface layout
// requires. Surface, Level and Offset locate the first image the short
// read landed in.
type TruncatedError struct {
	Surface int
	Level   int
	Offset  int64
	Want    int64
	Got     int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("surface %d level %d at offset %d: need %d payload bytes, got %d",
		e.Surface, e.Level, e.Offset, e.Want, e.Got)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncatedData }

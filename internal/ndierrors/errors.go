package ndierrors

import (
	stdErrors "errors"
	"fmt"
)

// fatalMarker is implemented by error types that mean "this worker cannot
// continue" so callers can classify them without a type switch.
type fatalMarker interface {
	error
	isFatal()
}

// RuntimeError indicates the native NDI runtime could not be loaded or
// initialized (DLL/shared-library not found, NDIlib_initialize failed, finder
// or receiver creation failed).
type RuntimeError struct {
	Op  string // e.g. "load", "initialize", "find_create_v2", "recv_create_v3"
	Err error
}

func (e *RuntimeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ndi runtime error: %s", e.Op)
	}
	return fmt.Sprintf("ndi runtime error: %s: %v", e.Op, e.Err)
}
func (e *RuntimeError) Unwrap() error { return e.Err }
func (e *RuntimeError) isFatal()      {}

// CaptureError indicates capture_video returned a fatal Error frame type for
// a connected source. It always ends the worker that produced it.
type CaptureError struct {
	Source string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("capture error: source %q", e.Source)
	}
	return fmt.Sprintf("capture error: source %q: %v", e.Source, e.Err)
}
func (e *CaptureError) Unwrap() error { return e.Err }
func (e *CaptureError) isFatal()      {}

// EncodeError indicates a single frame failed to convert or JPEG-encode
// (unsupported FourCC, conversion failure). Never fatal: the worker counts
// the frame dropped and continues.
type EncodeError struct {
	FourCC string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("encode error: fourcc %s", e.FourCC)
	}
	return fmt.Sprintf("encode error: fourcc %s: %v", e.FourCC, e.Err)
}
func (e *EncodeError) Unwrap() error { return e.Err }

// SourceNotFoundError indicates a WebSocket subscriber asked for a source
// name absent from the discovery snapshot, or get_or_create failed for it
// (Err carries the underlying cause in that second case; nil in the first).
// Surfaces as WebSocket close code 4404.
type SourceNotFoundError struct {
	Source string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("source not found: %q", e.Source)
	}
	return fmt.Sprintf("source not found: %q: %v", e.Source, e.Err)
}
func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// IsFatal returns true if the error chain contains a fatal error
// (RuntimeError or CaptureError) — one that must end the owning worker.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fm fatalMarker
	return stdErrors.As(err, &fm)
}

// Constructors.
func NewRuntimeError(op string, cause error) error { return &RuntimeError{Op: op, Err: cause} }
func NewCaptureError(source string, cause error) error {
	return &CaptureError{Source: source, Err: cause}
}
func NewEncodeError(fourcc string, cause error) error {
	return &EncodeError{FourCC: fourcc, Err: cause}
}
func NewSourceNotFoundError(source string, cause error) error {
	return &SourceNotFoundError{Source: source, Err: cause}
}

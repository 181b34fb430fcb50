package download

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a failed invocation
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindEngine     ErrorKind = "engine"
	KindFilesystem ErrorKind = "filesystem"
)

// Form fields named by validation errors
const (
	FieldLink = "link"
	FieldDir  = "dir"
)

// Operations named by engine and filesystem errors
const (
	OpResolveTranscoder = "resolve transcoder"
	OpExtract           = "extract"
	OpRename            = "rename"
)

var (
	// ErrMissingLink is returned when the link field is empty after trimming
	ErrMissingLink = errors.New("video link is required")

	// ErrMissingDir is returned when the destination field is empty after trimming
	ErrMissingDir = errors.New("destination folder is required")

	// ErrBusy is returned by Start while another invocation is running
	ErrBusy = errors.New("a download is already in progress")
)

// Error is the error type returned by the orchestrator
type Error struct {
	Kind  ErrorKind
	Field string // set for validation errors
	Op    string // operation that failed, e.g. "extract" or "rename"
	Err   error
}

// Error implements the error interface
func (e *Error) Error() string {
	// Engine errors keep the engine's own text.
	if e.Kind == KindFilesystem && e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(field string, err error) *Error {
	return &Error{Kind: KindValidation, Field: field, Err: err}
}

func engineError(op string, err error) *Error {
	return &Error{Kind: KindEngine, Op: op, Err: err}
}

func filesystemError(op string, err error) *Error {
	return &Error{Kind: KindFilesystem, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindEngine for errors not produced here
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindEngine
}

// IsValidation reports whether err is a form validation error
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

// Package errs provides the unified error type used across all of schemaport.
//
// Every subsystem (database drivers, introspection, export, filestore) wraps
// its native errors into *errs.Error before returning them to callers.
// Callers use the Is* predicates to handle errors without importing
// driver-specific packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindConnectionFailed, "ping failed", pgErr)
//
//	// At the top level — check error kind:
//	if errs.IsConfiguration(err) {
//	    // exit before any database I/O was attempted
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All backends (Postgres, MySQL, MinIO) map their native errors to one of
// these kinds, giving callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindConfiguration            // required setting missing or invalid
	ErrKindConnectionFailed         // cannot reach or authenticate to the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindIntrospection            // catalog or sampling query failed
	ErrKindAmbiguousTable           // manifest name matches multiple live tables
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindStorage                  // object storage operation failed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindIntrospection:
		return "introspection_failed"
	case ErrKindAmbiguousTable:
		return "ambiguous_table"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindStorage:
		return "storage_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all schemaport subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsConfiguration reports whether err was caused by missing or invalid settings.
func IsConfiguration(err error) bool {
	return kindOf(err) == ErrKindConfiguration
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsIntrospection reports whether err is a catalog or sampling query failure.
func IsIntrospection(err error) bool {
	return kindOf(err) == ErrKindIntrospection
}

// IsAmbiguousTable reports whether err was caused by a manifest table name
// matching more than one live table case-insensitively.
func IsAmbiguousTable(err error) bool {
	return kindOf(err) == ErrKindAmbiguousTable
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsStorage reports whether err is an object storage failure.
func IsStorage(err error) bool {
	return kindOf(err) == ErrKindStorage
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

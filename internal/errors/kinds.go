package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed kinds below.
var (
	ErrNotFound = stderrors.New("not found")
	ErrFormat   = stderrors.New("invalid format")
	ErrStorage  = stderrors.New("storage failure")
)

// NotFoundError reports a lookup of a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// FormatError reports malformed input: an import document, a draft or a key.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Invalid builds a FormatError with a formatted reason.
func Invalid(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// StorageError wraps a failure of the underlying storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for op. A nil err stays nil and
// errors that already carry a kind pass through unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrNotFound) || stderrors.Is(err, ErrFormat) || stderrors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

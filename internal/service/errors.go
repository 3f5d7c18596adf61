package service

import (
	"errors"
	"fmt"
)

// Domain error classes. Handlers branch on these with errors.Is / errors.As.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuth          = errors.New("authentication failed")
	ErrDuplicateName = errors.New("subject name already exists")
	ErrSubjectInUse  = errors.New("subject is still referenced by documents")
	ErrNotFound      = errors.New("not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// StorageError reports a failed object storage call.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DatabaseError reports a failed metadata call.
// OrphanedKey names an object left in storage without a metadata row.
// Retryable is set when repeating the whole action is known to be safe.
type DatabaseError struct {
	Op          string
	Err         error
	OrphanedKey string
	Retryable   bool
}

func (e *DatabaseError) Error() string {
	msg := fmt.Sprintf("database %s: %v", e.Op, e.Err)
	if e.OrphanedKey != "" {
		msg += fmt.Sprintf(" (orphaned object %q)", e.OrphanedKey)
	}
	return msg
}

func (e *DatabaseError) Unwrap() error { return e.Err }

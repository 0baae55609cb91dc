package database

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptDocument describes a stored document that could not be parsed or does
	// not match its shape. Load resets such documents and reports them instead.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrUnknownDocument is returned for names that were never registered.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrNoDocument is returned by a Backend when nothing is stored under a name yet.
	ErrNoDocument = errors.New("document not stored")
)

// PersistenceError wraps an I/O failure while reading or writing a document. The
// operation that triggered it was not applied.
type PersistenceError struct {
	Op       string
	Document string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Document, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

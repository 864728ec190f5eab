package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when an engine operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrPersistence indicates the progress store is unavailable or full.
	ErrPersistence = errors.New("progress persistence failed")
	// ErrMalformedProgress indicates a stored progress record could not be decoded.
	ErrMalformedProgress = errors.New("malformed persisted progress")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrEmptyCatalog is returned when no subject has any question.
	ErrEmptyCatalog = errors.New("question catalog is empty")
	// ErrInvalidQuestion indicates a catalog entry failed validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNoQuestions is returned when a daily set has nothing to play.
	ErrNoQuestions = errors.New("daily set has no questions")
)

// TransitionError describes a rejected engine operation.
type TransitionError struct {
	Op    string
	State SessionState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidTransition, e.Op, e.State)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// PersistenceError wraps a storage failure for a progress key.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", ErrPersistence, e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

package service

import (
	"errors"
	"fmt"
	"time"

	"taskmaster/internal/repository"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced id that does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict marks a write that would duplicate a unique value.
	ErrConflict = errors.New("conflict")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func systemClock() time.Time {
	return time.Now().UTC()
}

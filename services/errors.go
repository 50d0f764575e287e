// services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"
)

// Not-found and invalid-argument conditions are detected at the service
// boundary and returned before anything touches storage. Controllers map
// these onto HTTP statuses.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidStatus    = errors.New("invalid booking status")
)

// ValidationError reports the required fields missing from a request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// StorageError wraps an attachment-store or persistence failure. These
// are fatal for the request; no retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

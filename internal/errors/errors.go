// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports missing or malformed request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflict(msg string) error {
	return &ConflictError{Message: msg}
}

// UpstreamError wraps a failure of the scraping service or the AI provider.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// DispatchError wraps a mail transport failure.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("failed to send email: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func NewDispatch(err error) error {
	return &DispatchError{Err: err}
}

// PersistenceError wraps a storage read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// HTTPStatus maps an error from the taxonomy to the status returned to clients.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		conflict   *ConflictError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &conflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

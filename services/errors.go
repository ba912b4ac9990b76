// File: /services/errors.go
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error kinds. Controllers map them onto HTTP status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// ServiceError carries a user-facing message alongside its kind.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) error {
	return &ServiceError{Kind: kind, Message: message}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKey recognises unique violations from every supported driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

func isServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

func isServiceKind(err, kind error) bool {
	return isServiceError(err) && errors.Is(err, kind)
}

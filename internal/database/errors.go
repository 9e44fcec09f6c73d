package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrorClass groups errors by how a caller should report them.
type ErrorClass int

const (
	ErrorClassInternal ErrorClass = iota
	ErrorClassValidation
	ErrorClassNotFound
	ErrorClassConflict
	ErrorClassUnauthorized
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassValidation:
		return "validation"
	case ErrorClassNotFound:
		return "not_found"
	case ErrorClassConflict:
		return "conflict"
	case ErrorClassUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderItemNotFound     = errors.New("order item not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrCartLineNotFound      = errors.New("cart item not found")
	ErrWishlistEntryNotFound = errors.New("wishlist item not found")
	ErrEmailTaken            = errors.New("user already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)

var notFoundErrors = []error{
	ErrUserNotFound,
	ErrProductNotFound,
	ErrOrderNotFound,
	ErrOrderItemNotFound,
	ErrReviewNotFound,
	ErrCartLineNotFound,
	ErrWishlistEntryNotFound,
	sql.ErrNoRows,
}

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassInternal
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ErrorClassValidation
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return ErrorClassNotFound
		}
	}

	if errors.Is(err, ErrEmailTaken) {
		return ErrorClassConflict
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return ErrorClassUnauthorized
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrorClassConflict
		case "23503":
			return ErrorClassNotFound
		case "23502", "23514", "22P02", "22003":
			return ErrorClassValidation
		}
	}

	return ErrorClassInternal
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// optionally restricted to the named constraint.
func IsForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23503" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

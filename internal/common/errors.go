package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound          = errors.New("requested resource not found")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("resource conflict") // e.g., username already exists
	ErrValidation        = errors.New("validation failed")
	ErrInvalidCredential = errors.New("invalid password")
	ErrInternalServer    = errors.New("internal server error")

	// ErrAdminNotFound is the login-time lookup miss, reported as a bad request.
	ErrAdminNotFound = fmt.Errorf("admin %w", ErrNotFound)
	// ErrDuplicateIdentity is a username collision at registration.
	ErrDuplicateIdentity = fmt.Errorf("admin already exists: %w", ErrConflict)
)

// messageError carries a client-facing message while matching a sentinel
// through errors.Is.
type messageError struct {
	msg  string
	kind error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

func NewValidationError(msg string) error {
	return &messageError{msg: msg, kind: ErrValidation}
}

func NewBadRequestError(msg string) error {
	return &messageError{msg: msg, kind: ErrBadRequest}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrAdminNotFound) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrInvalidCredential) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicMessage is the client-facing text for err. Store failures are
// reduced to a generic message; their detail belongs in the log.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAdminNotFound):
		return "User not found"
	case errors.Is(err, ErrNotFound):
		return "Member not found"
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized access"
	case errors.Is(err, ErrInvalidCredential):
		return "Invalid password"
	case errors.Is(err, ErrDuplicateIdentity):
		return "Admin already exists"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		var msgErr *messageError
		if errors.As(err, &msgErr) {
			return msgErr.msg
		}
		return "Invalid request"
	default:
		return "Database error"
	}
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

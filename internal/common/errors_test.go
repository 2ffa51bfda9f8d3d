package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unknown admin", fmt.Errorf("login: %w", ErrAdminNotFound), http.StatusBadRequest, "User not found"},
		{"missing member", fmt.Errorf("delete: %w", ErrNotFound), http.StatusNotFound, "Member not found"},
		{"no session", ErrUnauthorized, http.StatusForbidden, "Unauthorized access"},
		{"bad password", ErrInvalidCredential, http.StatusUnauthorized, "Invalid password"},
		{"duplicate admin", fmt.Errorf("register: %w", ErrDuplicateIdentity), http.StatusBadRequest, "Admin already exists"},
		{"validation", fmt.Errorf("add: %w", NewValidationError("Please fill all required fields")), http.StatusBadRequest, "Please fill all required fields"},
		{"bad request", NewBadRequestError("offset requires limit"), http.StatusBadRequest, "offset requires limit"},
		{"store failure", fmt.Errorf("list: %w", errors.New("dial tcp: connection refused")), http.StatusInternalServerError, "Database error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromError(tt.err))
			assert.Equal(t, tt.message, PublicMessage(tt.err))
		})
	}

	assert.Equal(t, http.StatusOK, HTTPStatusFromError(nil))
	assert.Empty(t, PublicMessage(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

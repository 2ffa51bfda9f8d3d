package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/common/security"
	"church_roster/internal/domain/repository"
	"church_roster/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *sql.DB, *repository.MemorySessionRepository) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	sessions := repository.NewMemorySessionRepository()
	svc := NewAuthService(repository.NewSQLAdminRepository(db, time.Second), sessions, time.Hour, nil)
	return svc, db, sessions
}

func TestRegisterThenLogin(t *testing.T) {
	svc, db, sessions := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "s3cret"}))

	var stored string
	require.NoError(t, db.QueryRow(`SELECT password FROM admins WHERE username = 'pastor'`).Scan(&stored))
	assert.NotEqual(t, "s3cret", stored)
	assert.True(t, strings.HasPrefix(stored, "$2a$10$"), "bcrypt hash with cost 10, got %q", stored)
	assert.True(t, security.CheckPasswordHash("s3cret", stored))

	session, err := svc.Login(ctx, LoginRequest{Username: "pastor", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "pastor", session.Username)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
	assert.Equal(t, 1, sessions.Len())

	current, err := svc.CurrentSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "pastor", current.Username)
}

func TestLoginWrongPasswordCreatesNoSession(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "s3cret"}))

	session, err := svc.Login(ctx, LoginRequest{Username: "pastor", Password: "wrong"})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
	assert.Equal(t, 0, sessions.Len())
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, sessions := newAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, common.ErrAdminNotFound)
	assert.Equal(t, 0, sessions.Len())
}

func TestRegisterDuplicate(t *testing.T) {
	svc, db, _ := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "one"}))
	err := svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "two"})
	assert.ErrorIs(t, err, common.ErrDuplicateIdentity)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&n))
	assert.Equal(t, 1, n)

	// The original password still works.
	_, err = svc.Login(ctx, LoginRequest{Username: "pastor", Password: "one"})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"empty username", RegisterRequest{Username: " ", Password: "x"}},
		{"empty password", RegisterRequest{Username: "pastor"}},
		{"password too long", RegisterRequest{Username: "pastor", Password: strings.Repeat("a", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, sessions := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "s3cret"}))
	session, err := svc.Login(ctx, LoginRequest{Username: "pastor", Password: "s3cret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))
	require.NoError(t, svc.Logout(ctx, session.ID))
	require.NoError(t, svc.Logout(ctx, ""))
	assert.Equal(t, 0, sessions.Len())

	_, err = svc.CurrentSession(ctx, session.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentSessionExpired(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterRequest{Username: "pastor", Password: "s3cret"}))
	session, err := svc.Login(ctx, LoginRequest{Username: "pastor", Password: "s3cret"})
	require.NoError(t, err)

	svc.now = func() time.Time { return session.ExpiresAt.Add(time.Second) }
	_, err = svc.CurrentSession(ctx, session.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

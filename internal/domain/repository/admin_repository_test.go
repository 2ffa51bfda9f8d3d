package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"
	"church_roster/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countAdmins(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM admins`).Scan(&n))
	return n
}

func TestAdminCreateAndFind(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSQLAdminRepository(db, time.Second)
	ctx := context.Background()

	admin := &model.Admin{Username: "pastor", HashedPassword: "$2a$10$hash"}
	require.NoError(t, repo.Create(ctx, admin))
	assert.Positive(t, admin.ID)

	got, err := repo.FindByUsername(ctx, "pastor")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
	assert.Equal(t, "$2a$10$hash", got.HashedPassword)
}

func TestAdminCreateDuplicateUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSQLAdminRepository(db, time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Admin{Username: "pastor", HashedPassword: "x"}))
	err := repo.Create(ctx, &model.Admin{Username: "pastor", HashedPassword: "y"})
	assert.ErrorIs(t, err, common.ErrDuplicateIdentity)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, 1, countAdmins(t, db))
}

func TestAdminFindUnknown(t *testing.T) {
	repo := NewSQLAdminRepository(testutil.NewSQLiteDB(t), time.Second)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrAdminNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

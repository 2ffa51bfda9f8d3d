package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type sqlAdminRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLAdminRepository(db *sql.DB, queryTimeout time.Duration) AdminRepository {
	return &sqlAdminRepository{db: db, timeout: queryTimeout}
}

func (r *sqlAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO admins (username, password) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, admin.Username, admin.HashedPassword).Scan(&admin.ID)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrDuplicateIdentity
		}
		return fmt.Errorf("sqlAdminRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT id, username, password FROM admins WHERE username = $1`
	admin := &model.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&admin.ID, &admin.Username, &admin.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrAdminNotFound
		}
		return nil, fmt.Errorf("sqlAdminRepository.FindByUsername: %w", err)
	}
	return admin, nil
}

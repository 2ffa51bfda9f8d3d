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

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id int64) (*model.Member, error)
	// List returns members newest first. A nil fellowship lists everyone.
	List(ctx context.Context, fellowship *string, page model.Page) ([]model.Member, error)
	Delete(ctx context.Context, id int64) error
	CountByFellowship(ctx context.Context) (total int, counts []model.FellowshipCount, err error)
}

type sqlMemberRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLMemberRepository(db *sql.DB, queryTimeout time.Duration) MemberRepository {
	return &sqlMemberRepository{db: db, timeout: queryTimeout}
}

const memberColumns = `id, fullname, gender, phone, department, residence, fellowship, added_by, created_at`

func scanMember(row interface{ Scan(...any) error }, m *model.Member) error {
	return row.Scan(
		&m.ID, &m.FullName, &m.Gender, &m.Phone,
		&m.Department, &m.Residence, &m.Fellowship, &m.AddedBy, &m.CreatedAt,
	)
}

func (r *sqlMemberRepository) Create(ctx context.Context, m *model.Member) error {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `INSERT INTO members (fullname, gender, phone, department, residence, fellowship, added_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		m.FullName, m.Gender, m.Phone, m.Department, m.Residence, m.Fellowship, m.AddedBy,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("sqlMemberRepository.Create: %w", err)
	}

	// created_at is assigned by the column default.
	query = `SELECT created_at FROM members WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, m.ID).Scan(&m.CreatedAt); err != nil {
		return fmt.Errorf("sqlMemberRepository.Create: %w", err)
	}
	return nil
}

func (r *sqlMemberRepository) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	member := &model.Member{}
	if err := scanMember(r.db.QueryRowContext(ctx, query, id), member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlMemberRepository.FindByID: %w", err)
	}
	return member, nil
}

func (r *sqlMemberRepository) List(ctx context.Context, fellowship *string, page model.Page) ([]model.Member, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + memberColumns + ` FROM members`
	var args []any
	if fellowship != nil {
		args = append(args, *fellowship)
		query += fmt.Sprintf(" WHERE fellowship = $%d", len(args))
	}
	query += " ORDER BY id DESC"
	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if page.Offset > 0 {
			args = append(args, page.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlMemberRepository.List: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("sqlMemberRepository.List scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlMemberRepository.List rows: %w", err)
	}
	return members, nil
}

func (r *sqlMemberRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sqlMemberRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlMemberRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *sqlMemberRepository) CountByFellowship(ctx context.Context) (int, []model.FellowshipCount, error) {
	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("sqlMemberRepository.CountByFellowship total: %w", err)
	}

	query := `SELECT fellowship, COUNT(*) FROM members
	          WHERE fellowship IS NOT NULL AND fellowship <> ''
	          GROUP BY fellowship ORDER BY fellowship`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return 0, nil, fmt.Errorf("sqlMemberRepository.CountByFellowship: %w", err)
	}
	defer rows.Close()

	counts := []model.FellowshipCount{}
	for rows.Next() {
		var fc model.FellowshipCount
		if err := rows.Scan(&fc.Name, &fc.Count); err != nil {
			return 0, nil, fmt.Errorf("sqlMemberRepository.CountByFellowship scan: %w", err)
		}
		counts = append(counts, fc)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("sqlMemberRepository.CountByFellowship rows: %w", err)
	}
	return total, counts, nil
}

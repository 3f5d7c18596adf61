package postgres

import (
	"context"
	"database/sql"

	"doclib/internal/model"
	"doclib/internal/repository"
)

// SubjectPostgres is a PostgreSQL implementation of repository.SubjectRepository.
type SubjectPostgres struct {
	db *sql.DB
}

func NewSubjectPostgres(db *sql.DB) *SubjectPostgres {
	return &SubjectPostgres{db: db}
}

var _ repository.SubjectRepository = (*SubjectPostgres)(nil)

func (r *SubjectPostgres) Create(ctx context.Context, s *model.Subject) (*model.Subject, error) {
	const q = `
		INSERT INTO subjects (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, created_at
	`
	var out model.Subject
	err := r.db.QueryRowContext(ctx, q, s.ID, s.UserID, s.Name, s.CreatedAt).
		Scan(&out.ID, &out.UserID, &out.Name, &out.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return &out, nil
}

func (r *SubjectPostgres) FindByID(ctx context.Context, id string) (*model.Subject, error) {
	const q = `SELECT id, user_id, name, created_at FROM subjects WHERE id = $1`
	var s model.Subject
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubjectPostgres) ListByUser(ctx context.Context, userID string) ([]model.Subject, error) {
	const q = `
		SELECT id, user_id, name, created_at
		FROM subjects
		WHERE user_id = $1
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Subject, 0)
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Rename returns sql.ErrNoRows if the subject no longer exists.
func (r *SubjectPostgres) Rename(ctx context.Context, id, name string) error {
	const q = `UPDATE subjects SET name = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(res)
}

func (r *SubjectPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM subjects WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

package repository

import (
	"context"

	"doclib/internal/model"
)

// SubjectRepository defines data access for subjects.
// Missing rows are reported as sql.ErrNoRows, unique violations as ErrDuplicate.
type SubjectRepository interface {
	Create(ctx context.Context, s *model.Subject) (*model.Subject, error)
	FindByID(ctx context.Context, id string) (*model.Subject, error)
	// ListByUser returns the user's subjects ordered by name ascending.
	ListByUser(ctx context.Context, userID string) ([]model.Subject, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

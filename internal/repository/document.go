package repository

import (
	"context"
	"errors"

	"doclib/internal/model"
)

// ErrDuplicate is returned when an insert or update violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// DocumentRepository defines data access for documents using SQL queries only.
// Persistence only, no business rules.
// Missing rows are reported as sql.ErrNoRows.
type DocumentRepository interface {
	// Create inserts a new document record and returns it as stored.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, joined with its subject name.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByUser returns every document owned by userID, newest first, joined with subject names.
	ListByUser(ctx context.Context, userID string) ([]model.Document, error)

	// Update replaces the subject reference and tags of a document.
	Update(ctx context.Context, id string, upd model.DocumentUpdate) error

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// ExistsByPath reports whether a document row references the object key.
	ExistsByPath(ctx context.Context, filePath string) (bool, error)

	// CountBySubject returns how many documents reference the subject.
	CountBySubject(ctx context.Context, subjectID string) (int, error)
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"doclib/internal/model"
	"doclib/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// tags are read back as their text form so pq.StringArray can parse them
// regardless of the wire format the driver negotiated.
const documentColumns = `d.id, d.user_id, d.file_name, d.file_path, d.file_size, d.file_type,
		d.subject_id, s.name, d.tags::text, d.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (model.Document, error) {
	var (
		d           model.Document
		size        sql.NullInt64
		fileType    sql.NullString
		subjectID   sql.NullString
		subjectName sql.NullString
		tags        pq.StringArray
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.FileName,
		&d.FilePath,
		&size,
		&fileType,
		&subjectID,
		&subjectName,
		&tags,
		&d.CreatedAt,
	); err != nil {
		return model.Document{}, err
	}
	if size.Valid {
		n := size.Int64
		d.FileSize = &n
	}
	d.FileType = fileType.String
	d.SubjectID = stringPtr(subjectID)
	d.SubjectName = subjectName.String
	d.Tags = []string(tags)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d, nil
}

func tagArray(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		WITH d AS (
			INSERT INTO documents (id, user_id, file_name, file_path, file_size, file_type, subject_id, tags, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text[], $9)
			RETURNING *
		)
		SELECT ` + documentColumns + `
		FROM d LEFT JOIN subjects s ON s.id = d.subject_id
	`
	var size sql.NullInt64
	if doc.FileSize != nil {
		size = sql.NullInt64{Int64: *doc.FileSize, Valid: true}
	}
	fileType := sql.NullString{String: doc.FileType, Valid: doc.FileType != ""}

	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.FilePath,
		size,
		fileType,
		nullString(doc.SubjectID),
		tagArray(doc.Tags),
		doc.CreatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents d LEFT JOIN subjects s ON s.id = d.subject_id
		WHERE d.id = $1
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all documents of a user ordered by creation time descending.
func (r *DocumentPostgres) ListByUser(ctx context.Context, userID string) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents d LEFT JOIN subjects s ON s.id = d.subject_id
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC, d.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update sets the subject reference and tags. It returns sql.ErrNoRows if the row is gone.
func (r *DocumentPostgres) Update(ctx context.Context, id string, upd model.DocumentUpdate) error {
	const q = `UPDATE documents SET subject_id = $1, tags = $2::text[] WHERE id = $3`
	res, err := r.db.ExecContext(ctx, q, nullString(upd.SubjectID), tagArray(upd.Tags), id)
	if err != nil {
		return mapWriteError(err)
	}
	return requireAffected(res)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// ExistsByPath reports whether any document row uses filePath as its object key.
func (r *DocumentPostgres) ExistsByPath(ctx context.Context, filePath string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM documents WHERE file_path = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, filePath).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// CountBySubject counts documents filed under a subject.
func (r *DocumentPostgres) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE subject_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, subjectID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"doclib/internal/model"
	"doclib/internal/repository"
	"doclib/internal/storage"
)

// UploadInput carries one file upload on behalf of UserID.
type UploadInput struct {
	UserID      string
	FileName    string
	Content     io.Reader
	Size        int64 // declared size; -1 if unknown
	ContentType string
	// SubjectName is resolved by exact name among the user's subjects.
	SubjectName string
	// Tags may hold comma separated values.
	Tags []string
}

// UpdateInput replaces the editable metadata of a document.
// A nil or empty SubjectID leaves the document unclassified.
type UpdateInput struct {
	SubjectID *string
	Tags      []string
}

// DocumentListResult is the service-level DTO for a filtered listing.
type DocumentListResult struct {
	Items         []model.Document `json:"data"`
	Total         int              `json:"total"`
	Matched       int              `json:"matched"`
	AvailableTags []string         `json:"available_tags"`
}

// DownloadLink is a time-limited URL for fetching a document's bytes.
type DownloadLink struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// DocumentService defines the use cases for handling documents.
// Every method scoped by userID treats documents of other users as missing.
type DocumentService interface {
	// Upload stores the bytes, then inserts the metadata row. If the insert fails the
	// object is removed again; when that also fails the returned *DatabaseError names
	// the orphaned key.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns the user's documents filtered and ordered by q.
	List(ctx context.Context, userID string, q Query) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, userID, id string) (*model.Document, error)

	// Update changes subject and tags. It reports false without writing when nothing differs.
	Update(ctx context.Context, userID, id string, in UpdateInput) (bool, error)

	// Delete removes the object, then the metadata row.
	Delete(ctx context.Context, userID, id string) error

	// Stats summarises the user's library.
	Stats(ctx context.Context, userID string) (*model.Stats, error)

	// DownloadURL signs a GET URL for the document's object.
	DownloadURL(ctx context.Context, userID, id string) (*DownloadLink, error)

	// Open streams the document's bytes. The caller closes the reader.
	Open(ctx context.Context, userID, id string) (io.ReadCloser, *model.Document, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store     storage.Storage
	docs      repository.DocumentRepository
	subjects  repository.SubjectRepository
	logger    logrus.FieldLogger
	signedTTL time.Duration
	now       func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	docs repository.DocumentRepository,
	subjects repository.SubjectRepository,
	logger logrus.FieldLogger,
	signedURLTTL time.Duration,
) DocumentService {
	if signedURLTTL <= 0 {
		signedURLTTL = time.Minute
	}
	return &documentService{
		store:     store,
		docs:      docs,
		subjects:  subjects,
		logger:    logger.WithField("component", "document_service"),
		signedTTL: signedURLTTL,
		now:       time.Now,
	}
}

// StorageKey derives the object key of an upload: {user}/{yyyymmddHHMMSS}_{name},
// with every whitespace rune in name replaced by "_".
func StorageKey(userID, fileName string, at time.Time) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, fileName)
	return userID + "/" + at.UTC().Format("20060102150405") + "_" + sanitized
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (_ *model.Document, err error) {
	ctx, span := startSpan(ctx, "DocumentService.Upload", attribute.String("user.id", in.UserID))
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(in.FileName)
	if name == "" {
		return nil, validationError("file name is required")
	}
	if in.Content == nil {
		return nil, validationError("file content is required")
	}
	if in.UserID == "" {
		return nil, validationError("user id is required")
	}

	subjectID, err := s.resolveSubject(ctx, in.UserID, in.SubjectName)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	key := StorageKey(in.UserID, name, createdAt)
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	opt := storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": name},
		NoOverwrite: true,
	}
	info, err := s.store.Put(ctx, key, in.Content, opt)
	reclaimed := false
	if errors.Is(err, storage.ErrObjectExists) {
		// Same user, name and second. Only an object no row points at may be replaced.
		referenced, lookupErr := s.docs.ExistsByPath(ctx, key)
		if lookupErr != nil {
			return nil, &DatabaseError{Op: "lookup document path", Err: lookupErr}
		}
		if referenced {
			s.logger.WithField("key", key).Warn("object belongs to an existing document, upload refused")
			return nil, validationError("a document named %q was uploaded at the same moment, retry the upload", name)
		}
		s.logger.WithField("key", key).Warn("reclaiming unreferenced object")
		opt.NoOverwrite = false
		reclaimed = true
		info, err = s.store.Put(ctx, key, in.Content, opt)
	}
	if err != nil {
		return nil, &StorageError{Op: "put", Key: key, Err: err}
	}

	size := info.Size
	if size <= 0 && in.Size >= 0 {
		size = in.Size
	}
	doc := &model.Document{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		FileName:  name,
		FilePath:  key,
		FileType:  contentType,
		SubjectID: subjectID,
		Tags:      NormalizeTags(in.Tags...),
		CreatedAt: createdAt,
	}
	if size >= 0 {
		doc.FileSize = &size
	}

	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		return nil, s.compensateUpload(ctx, key, reclaimed, err)
	}
	s.logger.WithFields(logrus.Fields{"document_id": stored.ID, "key": key}).Info("document uploaded")
	return stored, nil
}

// compensateUpload removes a freshly written object after its row insert failed.
// A reclaimed object is left alone since a concurrent upload may have claimed the key.
func (s *documentService) compensateUpload(ctx context.Context, key string, reclaimed bool, cause error) error {
	log := s.logger.WithField("key", key).WithError(cause)
	if reclaimed {
		log.Error("metadata insert failed after reclaiming object, object kept")
		return &DatabaseError{Op: "insert document", Err: cause}
	}
	if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
		log.WithField("compensation_error", delErr.Error()).Error("metadata insert failed and object cleanup failed, object orphaned")
		return &DatabaseError{Op: "insert document", Err: cause, OrphanedKey: key}
	}
	log.Warn("metadata insert failed, object removed")
	return &DatabaseError{Op: "insert document", Err: cause}
}

// resolveSubject looks a subject up by exact name. An unknown name files the
// document without a subject.
func (s *documentService) resolveSubject(ctx context.Context, userID, name string) (*string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list subjects", Err: err}
	}
	for _, sub := range subjects {
		if sub.Name == name {
			id := sub.ID
			return &id, nil
		}
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "subject": name}).Warn("unknown subject name, uploading unclassified")
	return nil, nil
}

// List returns the filtered view together with the tags available for filtering.
func (s *documentService) List(ctx context.Context, userID string, q Query) (*DocumentListResult, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list documents", Err: err}
	}
	items := FilterDocuments(docs, q)
	return &DocumentListResult{
		Items:         items,
		Total:         len(docs),
		Matched:       len(items),
		AvailableTags: DistinctTags(docs),
	}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, userID, id string) (*model.Document, error) {
	return s.loadOwned(ctx, userID, id)
}

func (s *documentService) loadOwned(ctx context.Context, userID, id string) (*model.Document, error) {
	if id == "" {
		return nil, validationError("document id is required")
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("document")
		}
		return nil, &DatabaseError{Op: "get document", Err: err}
	}
	if doc.UserID != userID {
		return nil, notFound("document")
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, userID, id string, in UpdateInput) (_ bool, err error) {
	ctx, span := startSpan(ctx, "DocumentService.Update", attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()

	doc, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return false, err
	}

	subjectID := in.SubjectID
	if subjectID != nil && *subjectID == "" {
		subjectID = nil
	}
	tags := NormalizeTags(in.Tags...)

	if sameSubject(doc.SubjectID, subjectID) && sameTagSet(doc.Tags, tags) {
		return false, nil
	}

	if subjectID != nil {
		sub, err := s.subjects.FindByID(ctx, *subjectID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, validationError("subject %q does not exist", *subjectID)
			}
			return false, &DatabaseError{Op: "get subject", Err: err}
		}
		if sub.UserID != userID {
			return false, validationError("subject %q does not exist", *subjectID)
		}
	}

	if err := s.docs.Update(ctx, doc.ID, model.DocumentUpdate{SubjectID: subjectID, Tags: tags}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, notFound("document")
		}
		return false, &DatabaseError{Op: "update document", Err: err}
	}
	return true, nil
}

func sameSubject(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := startSpan(ctx, "DocumentService.Delete", attribute.String("document.id", id))
	defer func() { endSpan(span, err) }()

	doc, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		return &StorageError{Op: "delete", Key: doc.FilePath, Err: err}
	}
	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"document_id": doc.ID,
			"key":         doc.FilePath,
		}).Error("object deleted but metadata row remains")
		return &DatabaseError{Op: "delete document", Err: err, Retryable: true}
	}
	s.logger.WithField("document_id", doc.ID).Info("document deleted")
	return nil
}

func (s *documentService) Stats(ctx context.Context, userID string) (*model.Stats, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list documents", Err: err}
	}
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list subjects", Err: err}
	}
	st := ComputeStats(docs, subjects)
	return &st, nil
}

func (s *documentService) DownloadURL(ctx context.Context, userID, id string) (*DownloadLink, error) {
	doc, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.PresignGet(ctx, doc.FilePath, s.signedTTL)
	if err != nil {
		return nil, &StorageError{Op: "presign", Key: doc.FilePath, Err: err}
	}
	return &DownloadLink{URL: u, ExpiresIn: int(s.signedTTL.Seconds())}, nil
}

func (s *documentService) Open(ctx context.Context, userID, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, &StorageError{Op: "get", Key: doc.FilePath, Err: err}
	}
	return rc, doc, nil
}

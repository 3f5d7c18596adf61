package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"doclib/internal/model"
	"doclib/internal/repository"
)

// SubjectService manages a user's subjects.
type SubjectService interface {
	// Add creates a subject. Names are unique per user, ignoring case.
	Add(ctx context.Context, userID, name string) (*model.Subject, error)
	// Rename applies the same name rules as Add, ignoring the subject itself.
	Rename(ctx context.Context, userID, subjectID, name string) (*model.Subject, error)
	// Delete refuses with ErrSubjectInUse while any document references the subject.
	Delete(ctx context.Context, userID, subjectID string) error
	// List returns the user's subjects by name with their document counts.
	List(ctx context.Context, userID string) ([]model.SubjectSummary, error)
}

type subjectService struct {
	subjects repository.SubjectRepository
	docs     repository.DocumentRepository
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewSubjectService(subjects repository.SubjectRepository, docs repository.DocumentRepository, logger logrus.FieldLogger) SubjectService {
	return &subjectService{
		subjects: subjects,
		docs:     docs,
		logger:   logger.WithField("component", "subject_service"),
		now:      time.Now,
	}
}

func (s *subjectService) Add(ctx context.Context, userID, name string) (_ *model.Subject, err error) {
	ctx, span := startSpan(ctx, "SubjectService.Add", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("subject name is required")
	}
	if err := s.ensureUniqueName(ctx, userID, "", name); err != nil {
		return nil, err
	}

	created, err := s.subjects.Create(ctx, &model.Subject{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, &DatabaseError{Op: "insert subject", Err: err}
	}
	s.logger.WithFields(logrus.Fields{"subject_id": created.ID, "name": created.Name}).Info("subject created")
	return created, nil
}

func (s *subjectService) Rename(ctx context.Context, userID, subjectID, name string) (_ *model.Subject, err error) {
	ctx, span := startSpan(ctx, "SubjectService.Rename", attribute.String("subject.id", subjectID))
	defer func() { endSpan(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("subject name is required")
	}
	sub, err := s.loadOwned(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	if sub.Name == name {
		return sub, nil
	}
	if err := s.ensureUniqueName(ctx, userID, sub.ID, name); err != nil {
		return nil, err
	}

	if err := s.subjects.Rename(ctx, sub.ID, name); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateName
		case errors.Is(err, sql.ErrNoRows):
			return nil, notFound("subject")
		default:
			return nil, &DatabaseError{Op: "rename subject", Err: err}
		}
	}
	sub.Name = name
	return sub, nil
}

func (s *subjectService) Delete(ctx context.Context, userID, subjectID string) (err error) {
	ctx, span := startSpan(ctx, "SubjectService.Delete", attribute.String("subject.id", subjectID))
	defer func() { endSpan(span, err) }()

	sub, err := s.loadOwned(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	n, err := s.docs.CountBySubject(ctx, sub.ID)
	if err != nil {
		return &DatabaseError{Op: "count documents", Err: err}
	}
	if n > 0 {
		return ErrSubjectInUse
	}
	if err := s.subjects.Delete(ctx, sub.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("subject")
		}
		return &DatabaseError{Op: "delete subject", Err: err}
	}
	s.logger.WithField("subject_id", sub.ID).Info("subject deleted")
	return nil
}

func (s *subjectService) List(ctx context.Context, userID string) ([]model.SubjectSummary, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list subjects", Err: err}
	}
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, &DatabaseError{Op: "list documents", Err: err}
	}
	counts := SubjectDocumentCounts(docs)

	out := make([]model.SubjectSummary, 0, len(subjects))
	for _, sub := range subjects {
		out = append(out, model.SubjectSummary{Subject: sub, DocumentCount: counts[sub.ID]})
	}
	return out, nil
}

func (s *subjectService) loadOwned(ctx context.Context, userID, id string) (*model.Subject, error) {
	if id == "" {
		return nil, validationError("subject id is required")
	}
	sub, err := s.subjects.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("subject")
		}
		return nil, &DatabaseError{Op: "get subject", Err: err}
	}
	if sub.UserID != userID {
		return nil, notFound("subject")
	}
	return sub, nil
}

// ensureUniqueName rejects name if another subject of the user (other than exceptID)
// already carries it, compared case-insensitively.
func (s *subjectService) ensureUniqueName(ctx context.Context, userID, exceptID, name string) error {
	existing, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return &DatabaseError{Op: "list subjects", Err: err}
	}
	for _, sub := range existing {
		if sub.ID != exceptID && strings.EqualFold(sub.Name, name) {
			return ErrDuplicateName
		}
	}
	return nil
}

package mocks

import (
	"context"

	"doclib/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSubjectService struct {
	mock.Mock
}

func (m *MockSubjectService) Add(ctx context.Context, userID, name string) (*model.Subject, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectService) Rename(ctx context.Context, userID, subjectID, name string) (*model.Subject, error) {
	args := m.Called(ctx, userID, subjectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectService) Delete(ctx context.Context, userID, subjectID string) error {
	args := m.Called(ctx, userID, subjectID)
	return args.Error(0)
}

func (m *MockSubjectService) List(ctx context.Context, userID string) ([]model.SubjectSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SubjectSummary), args.Error(1)
}

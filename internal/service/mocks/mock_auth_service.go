package mocks

import (
	"context"

	"doclib/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, p model.Principal) {
	m.Called(ctx, p)
}

func (m *MockAuthService) Authenticate(ctx context.Context, rawToken string) (model.Principal, error) {
	args := m.Called(ctx, rawToken)
	return args.Get(0).(model.Principal), args.Error(1)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doclib/internal/auth"
	"doclib/internal/logging"
	"doclib/internal/model"
	"doclib/internal/repository"
	repoMocks "doclib/internal/repository/mocks"
)

type memRevocations struct {
	revoked map[string]time.Time
	err     error
}

func (m *memRevocations) Revoke(_ context.Context, id string, exp time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[id] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[id]
	return ok, nil
}

var testHasher = auth.NewHasherWithParams(&argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

func newTestAuthService() (AuthService, *repoMocks.MockUserRepository, *memRevocations) {
	users := new(repoMocks.MockUserRepository)
	rev := &memRevocations{revoked: map[string]time.Time{}}
	tokens := auth.NewTokenManager("test-secret", "doclib", time.Hour)
	return NewAuthService(users, testHasher, tokens, rev, logging.Discard()), users, rev
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hashed password", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			ok, _ := testHasher.Verify("secret123", u.PasswordHash)
			return u.Email == "ann@example.com" && ok
		})).Return(&model.User{ID: "u1", Email: "ann@example.com"}, nil)

		u, err := svc.SignUp(ctx, " Ann@Example.com ", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc, users, _ := newTestAuthService()

		_, err := svc.SignUp(ctx, "not-an-email", "secret123")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = svc.SignUp(ctx, "ann@example.com", "123")
		assert.ErrorIs(t, err, ErrValidation)

		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("already registered", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		users.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.SignUp(ctx, "ann@example.com", "secret123")

		assert.ErrorIs(t, err, ErrAuth)
	})
}

func TestAuthService_SignInAuthenticateSignOut(t *testing.T) {
	ctx := context.Background()
	svc, users, rev := newTestAuthService()

	hash, err := testHasher.Hash("secret123")
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "ann@example.com").
		Return(&model.User{ID: "u1", Email: "ann@example.com", PasswordHash: hash}, nil)

	_, err = svc.SignIn(ctx, "ann@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuth)

	sess, err := svc.SignIn(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, "u1", sess.User.ID)

	p, err := svc.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)

	svc.SignOut(ctx, p)
	assert.Contains(t, rev.revoked, p.TokenID)

	_, err = svc.Authenticate(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestAuthService_SignInUnknownUser(t *testing.T) {
	svc, users, _ := newTestAuthService()
	users.On("FindByEmail", mock.Anything, "bob@example.com").Return(nil, sql.ErrNoRows)

	_, err := svc.SignIn(context.Background(), "bob@example.com", "whatever")

	assert.ErrorIs(t, err, ErrAuth)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, rev := newTestAuthService()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrAuth)

	tokens := auth.NewTokenManager("test-secret", "doclib", time.Hour)
	raw, _, err := tokens.Issue(model.User{ID: "u1"})
	require.NoError(t, err)

	rev.err = errors.New("redis down")
	_, err = svc.Authenticate(ctx, raw)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuth)
}

func TestAuthService_SignOutIsBestEffort(t *testing.T) {
	svc, _, rev := newTestAuthService()
	rev.err = errors.New("redis down")

	assert.NotPanics(t, func() {
		svc.SignOut(context.Background(), model.Principal{UserID: "u1", TokenID: "t1", ExpiresAt: time.Now().Add(time.Hour)})
	})
}

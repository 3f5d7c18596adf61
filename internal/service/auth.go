package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"doclib/internal/model"
	"doclib/internal/repository"
)

const minPasswordLength = 6

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// TokenManager issues and parses session tokens.
type TokenManager interface {
	Issue(user model.User) (string, time.Time, error)
	Parse(raw string) (model.Principal, error)
}

// RevocationStore remembers signed-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, exp time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService signs users up and in and resolves bearer tokens to principals.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	// SignOut revokes the principal's token. Failures are logged, never returned.
	SignOut(ctx context.Context, p model.Principal)
	Authenticate(ctx context.Context, rawToken string) (model.Principal, error)
}

type authService struct {
	users   repository.UserRepository
	hasher  PasswordHasher
	tokens  TokenManager
	revoked RevocationStore
	logger  logrus.FieldLogger
	now     func() time.Time
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenManager, revoked RevocationStore, logger logrus.FieldLogger) AuthService {
	return &authService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoked: revoked,
		logger:  logger.WithField("component", "auth_service"),
		now:     time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", validationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("invalid email address")
	}
	return email, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already registered", ErrAuth)
		}
		return nil, &DatabaseError{Op: "insert user", Err: err}
	}
	s.logger.WithField("user_id", u.ID).Info("user signed up")
	return u, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, validationError("password is required")
	}

	invalid := fmt.Errorf("%w: invalid login credentials", ErrAuth)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalid
		}
		return nil, &DatabaseError{Op: "get user", Err: err}
	}
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", u.ID).Error("stored password hash unreadable")
		return nil, invalid
	}
	if !ok {
		return nil, invalid
	}

	token, exp, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.Session{AccessToken: token, ExpiresAt: exp, User: *u}, nil
}

func (s *authService) SignOut(ctx context.Context, p model.Principal) {
	if p.TokenID == "" {
		return
	}
	if err := s.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		s.logger.WithError(err).WithField("user_id", p.UserID).Warn("sign out: token revocation failed")
	}
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (model.Principal, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return model.Principal{}, fmt.Errorf("%w: missing bearer token", ErrAuth)
	}
	p, err := s.tokens.Parse(rawToken)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, p.TokenID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return model.Principal{}, fmt.Errorf("%w: token revoked", ErrAuth)
	}
	return p, nil
}

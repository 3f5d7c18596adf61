package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"doclib/internal/model"
)

// TokenManager issues and validates HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user and returns it with its expiry.
func (m *TokenManager) Issue(user model.User) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	cl := claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse checks signature, issuer and expiry and returns the principal the token names.
func (m *TokenManager) Parse(raw string) (model.Principal, error) {
	var cl claims
	tkn, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return model.Principal{}, err
	}
	if !tkn.Valid || cl.Subject == "" || cl.ID == "" {
		return model.Principal{}, jwt.ErrTokenInvalidClaims
	}

	return model.Principal{
		UserID:    cl.Subject,
		Email:     cl.Email,
		TokenID:   cl.ID,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}

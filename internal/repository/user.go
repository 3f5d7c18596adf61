package repository

import (
	"context"

	"doclib/internal/model"
)

// UserRepository stores sign-in identities.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

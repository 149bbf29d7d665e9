package users

import (
	"context"

	"vaultshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	SetTwoFASecret(ctx context.Context, id string, secret string) error
	EnableTwoFA(ctx context.Context, id string) error
	DisableTwoFA(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

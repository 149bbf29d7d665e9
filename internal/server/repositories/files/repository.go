package files

import (
	"context"

	"vaultshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	// GetConfirmedInVault returns the file only when it belongs to vaultID
	// and its upload has been confirmed.
	GetConfirmedInVault(ctx context.Context, id, vaultID string) (*models.File, error)
	ListByVault(ctx context.Context, vaultID string) ([]*models.File, error)
	ListConfirmedByVault(ctx context.Context, vaultID string) ([]*models.File, error)
	Confirm(ctx context.Context, ids []string, ownerID string) ([]*models.File, error)
	Delete(ctx context.Context, id, ownerID string) error
	IncrementDownloadCount(ctx context.Context, id string) error
	StoragePathsByVault(ctx context.Context, vaultID string) ([]string, error)
	StoragePathsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

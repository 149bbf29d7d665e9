package vaults

import (
	"context"

	"vaultshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Vault, error)
	// GetByShareCode also returns the owner's display name for share pages.
	GetByShareCode(ctx context.Context, shareCode string) (*models.Vault, string, error)
	ShareCodeExists(ctx context.Context, shareCode string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultListItem, error)
	Update(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	Delete(ctx context.Context, id, ownerID string) error
	IncrementDownloadCount(ctx context.Context, id string) error
	OwnerStats(ctx context.Context, ownerID string) (*models.OwnerStats, error)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vaultshare/internal/common"
	"vaultshare/internal/server/auth"
	"vaultshare/internal/server/models"
	"vaultshare/internal/server/objstore"
	"vaultshare/internal/server/repositories/repomanager"
	"vaultshare/internal/shared"
)

// shareCodeAttempts bounds the collision retry loop when generating a share
// code. With 36^8 possible codes a second attempt is already rare.
const shareCodeAttempts = 5

// VaultUpdate carries optional vault field changes; nil means unchanged.
type VaultUpdate struct {
	Name        *string
	Description *string
	Visibility  *string
	Password    *string
}

// VaultService manages owned vaults: creation, listing, updates, deletion
// and owner statistics. All operations are scoped by owner id; a foreign
// vault behaves exactly like a missing one.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objstore.Store
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, store objstore.Store) *VaultService {
	return &VaultService{db: db, repomanager: m, store: store}
}

// Create validates the visibility/password pairing, generates a unique share
// code and persists the vault. Public vaults never store a password hash.
func (s *VaultService) Create(ctx context.Context, ownerID, name, description, visibility, password string) (*models.Vault, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: vault name is required", common.ErrValidation)
	}
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrValidation, visibility)
	}
	if visibility == models.VisibilityPrivate && password == "" {
		return nil, fmt.Errorf("%w: private vaults require a password", common.ErrValidation)
	}

	var passwordHash *string
	if visibility == models.VisibilityPrivate {
		hash, err := auth.HashPassword(password, auth.VaultPasswordCost)
		if err != nil {
			return nil, fmt.Errorf("hash error: %w", err)
		}
		passwordHash = &hash
	}

	repo := s.repomanager.Vaults(s.db)

	shareCode, err := s.freeShareCode(ctx)
	if err != nil {
		return nil, err
	}

	vault := &models.Vault{
		OwnerID:      ownerID,
		Name:         name,
		Description:  trimmedOrNil(description),
		Visibility:   visibility,
		PasswordHash: passwordHash,
		ShareCode:    shareCode,
	}

	created, err := repo.Create(ctx, vault)
	if err != nil {
		return nil, fmt.Errorf("error creating vault: %w", err)
	}
	return created.Public(), nil
}

// List returns the owner's vaults with file aggregates, password hashes
// stripped.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]*models.VaultListItem, error) {
	items, err := s.repomanager.Vaults(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.PasswordHash = nil
	}
	return items, nil
}

// Get returns one owned vault together with all of its files, confirmed or
// not: owners see pending uploads.
func (s *VaultService) Get(ctx context.Context, ownerID, vaultID string) (*models.Vault, []*models.File, error) {
	vault, err := s.repomanager.Vaults(s.db).GetByIDForOwner(ctx, vaultID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.repomanager.Files(s.db).ListByVault(ctx, vaultID)
	if err != nil {
		return nil, nil, err
	}

	return vault.Public(), files, nil
}

// Update applies the non-nil fields of upd, keeping the invariant that a
// vault's password hash is present iff it is private. Switching to public
// always clears the hash; switching to private requires either a new
// password or an existing hash.
func (s *VaultService) Update(ctx context.Context, ownerID, vaultID string, upd VaultUpdate) (*models.Vault, error) {
	repo := s.repomanager.Vaults(s.db)

	vault, err := repo.GetByIDForOwner(ctx, vaultID, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: vault name is required", common.ErrValidation)
		}
		vault.Name = name
	}
	if upd.Description != nil {
		vault.Description = trimmedOrNil(*upd.Description)
	}
	if upd.Visibility != nil {
		switch *upd.Visibility {
		case models.VisibilityPublic, models.VisibilityPrivate:
			vault.Visibility = *upd.Visibility
		default:
			return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrValidation, *upd.Visibility)
		}
	}

	switch vault.Visibility {
	case models.VisibilityPublic:
		vault.PasswordHash = nil
	case models.VisibilityPrivate:
		if upd.Password != nil && *upd.Password != "" {
			hash, err := auth.HashPassword(*upd.Password, auth.VaultPasswordCost)
			if err != nil {
				return nil, fmt.Errorf("hash error: %w", err)
			}
			vault.PasswordHash = &hash
		}
		if vault.PasswordHash == nil {
			return nil, fmt.Errorf("%w: private vaults require a password", common.ErrValidation)
		}
	}

	updated, err := repo.Update(ctx, vault)
	if err != nil {
		return nil, fmt.Errorf("error updating vault: %w", err)
	}
	return updated.Public(), nil
}

// Delete removes the vault's stored objects, then the vault row; contained
// file records cascade.
func (s *VaultService) Delete(ctx context.Context, ownerID, vaultID string) error {
	vaultRepo := s.repomanager.Vaults(s.db)
	fileRepo := s.repomanager.Files(s.db)

	// Owner check up front so we never list a foreign vault's paths.
	if _, err := vaultRepo.GetByIDForOwner(ctx, vaultID, ownerID); err != nil {
		return err
	}

	paths, err := fileRepo.StoragePathsByVault(ctx, vaultID)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, paths); err != nil {
		return fmt.Errorf("storage cleanup error: %w", err)
	}

	return vaultRepo.Delete(ctx, vaultID, ownerID)
}

// Stats aggregates the owner's vault and file totals.
func (s *VaultService) Stats(ctx context.Context, ownerID string) (*models.OwnerStats, error) {
	return s.repomanager.Vaults(s.db).OwnerStats(ctx, ownerID)
}

// freeShareCode generates share codes until one is unused. The check and the
// insert are not atomic; the unique constraint on share_code backstops the
// rare race.
func (s *VaultService) freeShareCode(ctx context.Context) (string, error) {
	repo := s.repomanager.Vaults(s.db)

	for i := 0; i < shareCodeAttempts; i++ {
		code, err := shared.MakeShareCode()
		if err != nil {
			return "", err
		}
		exists, err := repo.ShareCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique share code")
}

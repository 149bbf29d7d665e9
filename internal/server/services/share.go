package services

import (
	"context"
	"database/sql"
	"fmt"

	"vaultshare/internal/common"
	"vaultshare/internal/server/auth"
	"vaultshare/internal/server/models"
	"vaultshare/internal/server/repositories/repomanager"
)

// ShareView is what a visitor sees when resolving a share code. For private
// vaults Files is withheld and Locked is true until an unlock succeeds.
type ShareView struct {
	Vault     *models.Vault
	OwnerName string
	Files     []*models.File
	Locked    bool
}

// UnlockResult is the outcome of a successful unlock: the confirmed file
// listing, or a download grant when one file was targeted.
type UnlockResult struct {
	Vault *models.Vault
	Files []*models.File
	Grant *DownloadGrant
}

// ShareQR is a scannable share link.
type ShareQR struct {
	QRCode   string
	ShareURL string
}

// ShareService is the access gate for visitors holding a share code. It has
// no notion of user identity: possession of the code (plus the vault
// password, for private vaults) is the whole authorization.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	files       *FileService
	appURL      string
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, files *FileService, appURL string) *ShareService {
	return &ShareService{db: db, repomanager: m, files: files, appURL: appURL}
}

// Resolve looks a vault up by share code. Public vaults come back with their
// confirmed files; private vaults come back locked, metadata only.
func (s *ShareService) Resolve(ctx context.Context, shareCode string) (*ShareView, error) {
	vault, ownerName, err := s.repomanager.Vaults(s.db).GetByShareCode(ctx, shareCode)
	if err != nil {
		return nil, err
	}

	view := &ShareView{Vault: vault.Public(), OwnerName: ownerName, Locked: vault.Locked()}
	if view.Locked {
		return view, nil
	}

	files, err := s.repomanager.Files(s.db).ListConfirmedByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}
	view.Files = files
	return view, nil
}

// Unlock authorizes access to a vault's contents. Private vaults require the
// password on every call: nothing is cached server-side and no session is
// created, so repeated unlocks are idempotent. Public vaults ignore any
// password supplied. When fileID is non-empty the result carries a download
// grant for that file instead of the listing; a file that is absent,
// unconfirmed or in another vault reads as not found.
func (s *ShareService) Unlock(ctx context.Context, shareCode, password, fileID string) (*UnlockResult, error) {
	vault, _, err := s.repomanager.Vaults(s.db).GetByShareCode(ctx, shareCode)
	if err != nil {
		return nil, err
	}

	if vault.Locked() {
		if password == "" {
			return nil, common.ErrPasswordRequired
		}
		if vault.PasswordHash == nil || !auth.CheckPassword(password, *vault.PasswordHash) {
			return nil, common.ErrWrongPassword
		}
	}

	if fileID != "" {
		file, err := s.repomanager.Files(s.db).GetConfirmedInVault(ctx, fileID, vault.ID)
		if err != nil {
			return nil, err
		}
		grant, err := s.files.grant(ctx, file)
		if err != nil {
			return nil, err
		}
		return &UnlockResult{Vault: vault.Public(), Grant: grant}, nil
	}

	files, err := s.repomanager.Files(s.db).ListConfirmedByVault(ctx, vault.ID)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Vault: vault.Public(), Files: files}, nil
}

// QR renders the share page link as a QR code. The code must resolve to an
// existing vault.
func (s *ShareService) QR(ctx context.Context, shareCode string) (*ShareQR, error) {
	if _, _, err := s.repomanager.Vaults(s.db).GetByShareCode(ctx, shareCode); err != nil {
		return nil, err
	}

	shareURL := fmt.Sprintf("%s/share/%s", s.appURL, shareCode)
	qr, err := pngDataURL(shareURL)
	if err != nil {
		return nil, fmt.Errorf("qr error: %w", err)
	}

	return &ShareQR{QRCode: qr, ShareURL: shareURL}, nil
}

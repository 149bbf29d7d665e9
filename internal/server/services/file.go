package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"vaultshare/internal/common"
	"vaultshare/internal/dbx"
	"vaultshare/internal/logging"
	"vaultshare/internal/server/models"
	"vaultshare/internal/server/objstore"
	"vaultshare/internal/server/repositories/repomanager"
)

// downloadURLTTL bounds the exposure window of a leaked download link.
const downloadURLTTL = 15 * time.Minute

// UploadRequest is the client-supplied metadata for one file about to be
// uploaded directly to object storage.
type UploadRequest struct {
	Name     string
	MimeType string
	Size     int64
}

// UploadGrant tells the client where to PUT one file's bytes. The file
// record already exists, unconfirmed, when the grant is returned.
type UploadGrant struct {
	FileID      string
	FileName    string
	UploadURL   string
	StoragePath string
}

// DownloadGrant is a short-lived authorization to fetch one file.
type DownloadGrant struct {
	DownloadURL string
	FileName    string
	MimeType    string
	SizeBytes   int64
}

// FileService manages file records and their object-storage counterparts:
// upload initiation, confirmation, deletion and download authorization.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objstore.Store
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objstore.Store, l logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, store: store, logger: l.With("module", "files")}
}

// InitiateUpload pre-registers unconfirmed file records in the owner's vault
// and returns a presigned upload URL per file. The client uploads directly
// to storage and then calls Confirm. A missing or foreign vault reads as
// not found. All records are created in one transaction so a batch never
// half-exists.
func (s *FileService) InitiateUpload(ctx context.Context, ownerID, vaultID string, reqs []UploadRequest) ([]*UploadGrant, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no file metadata provided", common.ErrValidation)
	}

	if _, err := s.repomanager.Vaults(s.db).GetByIDForOwner(ctx, vaultID, ownerID); err != nil {
		return nil, err
	}

	grants := make([]*UploadGrant, 0, len(reqs))
	for _, req := range reqs {
		if req.Name == "" {
			return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
		}

		storagePath := fmt.Sprintf("%s/%s/%s%s", ownerID, vaultID, uuid.New(), path.Ext(req.Name))

		uploadURL, err := s.store.SignedUploadURL(ctx, storagePath)
		if err != nil {
			return nil, fmt.Errorf("presign error: %w", err)
		}

		grants = append(grants, &UploadGrant{
			FileName:    req.Name,
			UploadURL:   uploadURL,
			StoragePath: storagePath,
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fileRepo := s.repomanager.Files(tx)

		for i, req := range reqs {
			mimeType := req.MimeType
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}

			file, err := fileRepo.Create(ctx, &models.File{
				VaultID:      vaultID,
				OwnerID:      ownerID,
				Name:         req.Name,
				OriginalName: req.Name,
				MimeType:     mimeType,
				SizeBytes:    req.Size,
				StoragePath:  grants[i].StoragePath,
				Confirmed:    false,
			})
			if err != nil {
				return fmt.Errorf("error creating file: %w", err)
			}
			grants[i].FileID = file.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return grants, nil
}

// Confirm marks the given files as uploaded and safe to serve. Only the
// caller's own files are affected.
func (s *FileService) Confirm(ctx context.Context, ownerID string, fileIDs []string) ([]*models.File, error) {
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("%w: fileIds required", common.ErrValidation)
	}
	return s.repomanager.Files(s.db).Confirm(ctx, fileIDs, ownerID)
}

// Delete removes the stored bytes and then the file record.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID string) error {
	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByIDForOwner(ctx, fileID, ownerID)
	if err != nil {
		return err
	}

	if file.StoragePath != "" {
		if err := s.store.Remove(ctx, []string{file.StoragePath}); err != nil {
			return fmt.Errorf("storage cleanup error: %w", err)
		}
	}

	return fileRepo.Delete(ctx, fileID, ownerID)
}

// OwnerDownload authorizes the owner to download one of their own files.
// Unconfirmed files read as not found.
func (s *FileService) OwnerDownload(ctx context.Context, ownerID, fileID string) (*DownloadGrant, error) {
	file, err := s.repomanager.Files(s.db).GetByIDForOwner(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if !file.Confirmed {
		return nil, common.ErrNotFound
	}
	return s.grant(ctx, file)
}

// grant issues the presigned download URL and bumps the file's and owning
// vault's download counters. The increments are best effort: a counter
// failure is logged, not surfaced, so a download never fails over analytics.
func (s *FileService) grant(ctx context.Context, file *models.File) (*DownloadGrant, error) {
	url, err := s.store.SignedDownloadURL(ctx, file.StoragePath, downloadURLTTL, file.OriginalName)
	if err != nil {
		return nil, fmt.Errorf("presign error: %w", err)
	}

	if err := s.repomanager.Files(s.db).IncrementDownloadCount(ctx, file.ID); err != nil {
		s.logger.Warn(ctx, "file download counter update failed", "file_id", file.ID, "error", err)
	}
	if err := s.repomanager.Vaults(s.db).IncrementDownloadCount(ctx, file.VaultID); err != nil {
		s.logger.Warn(ctx, "vault download counter update failed", "vault_id", file.VaultID, "error", err)
	}

	return &DownloadGrant{
		DownloadURL: url,
		FileName:    file.OriginalName,
		MimeType:    file.MimeType,
		SizeBytes:   file.SizeBytes,
	}, nil
}

package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vaultshare/internal/common"
	"vaultshare/internal/dbx"
	"vaultshare/internal/server/models"
)

const fileColumns = `id, vault_id, owner_id, name, original_name, mime_type, size_bytes, storage_path, confirmed, download_count, created_at`

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFile(scan func(dest ...any) error) (*models.File, error) {
	file := &models.File{}
	err := scan(&file.ID, &file.VaultID, &file.OwnerID, &file.Name, &file.OriginalName,
		&file.MimeType, &file.SizeBytes, &file.StoragePath, &file.Confirmed,
		&file.DownloadCount, &file.CreatedAt)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (vault_id, owner_id, name, original_name, mime_type, size_bytes, storage_path, confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.VaultID, file.OwnerID, file.Name, file.OriginalName, file.MimeType,
		file.SizeBytes, file.StoragePath, file.Confirmed).Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND owner_id = $2`

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id, ownerID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetConfirmedInVault(ctx context.Context, id, vaultID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND vault_id = $2 AND confirmed`

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id, vaultID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		file, err := scanFile(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByVault returns every file in the vault, including unconfirmed ones.
// Owner-facing only; share paths must use ListConfirmedByVault.
func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE vault_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, vaultID)
}

func (r *PostgresRepository) ListConfirmedByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE vault_id = $1 AND confirmed ORDER BY created_at DESC`
	return r.list(ctx, query, vaultID)
}

// Confirm marks the given files as uploaded, scoped by owner, and returns
// the updated records. Ids belonging to other owners are silently skipped.
func (r *PostgresRepository) Confirm(ctx context.Context, ids []string, ownerID string) ([]*models.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query :=
		`UPDATE files SET confirmed = TRUE
		 WHERE owner_id = $1 AND id IN (` + strings.Join(placeholders, ", ") + `)
		 RETURNING ` + fileColumns

	return r.list(ctx, query, args...)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// IncrementDownloadCount bumps the counter atomically in the store.
func (r *PostgresRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE files SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) storagePaths(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *PostgresRepository) StoragePathsByVault(ctx context.Context, vaultID string) ([]string, error) {
	return r.storagePaths(ctx, `SELECT storage_path FROM files WHERE vault_id = $1`, vaultID)
}

func (r *PostgresRepository) StoragePathsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return r.storagePaths(ctx, `SELECT storage_path FROM files WHERE owner_id = $1`, ownerID)
}

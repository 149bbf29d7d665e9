package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaultshare/internal/common"
	"vaultshare/internal/dbx"
	"vaultshare/internal/server/models"
)

const vaultColumns = `id, owner_id, name, description, visibility, password_hash, share_code, download_count, created_at`

// PostgresRepository implements vault storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {

	query :=
		`INSERT INTO vaults (owner_id, name, description, visibility, password_hash, share_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, download_count, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		vault.OwnerID, vault.Name, vault.Description, vault.Visibility,
		vault.PasswordHash, vault.ShareCode).Scan(&vault.ID, &vault.DownloadCount, &vault.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}

// GetByIDForOwner is owner-scoped: a foreign vault reads as absent.
func (r *PostgresRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM vaults WHERE id = $1 AND owner_id = $2`

	vault := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&vault.ID, &vault.OwnerID, &vault.Name, &vault.Description, &vault.Visibility,
		&vault.PasswordHash, &vault.ShareCode, &vault.DownloadCount, &vault.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vault, nil
}

func (r *PostgresRepository) GetByShareCode(ctx context.Context, shareCode string) (*models.Vault, string, error) {
	query :=
		`SELECT v.id, v.owner_id, v.name, v.description, v.visibility, v.password_hash,
		        v.share_code, v.download_count, v.created_at, u.name
		 FROM vaults v
		 JOIN users u ON u.id = v.owner_id
		 WHERE v.share_code = $1
		 `

	vault := &models.Vault{}
	var ownerName string
	err := r.db.QueryRowContext(ctx, query, shareCode).Scan(
		&vault.ID, &vault.OwnerID, &vault.Name, &vault.Description, &vault.Visibility,
		&vault.PasswordHash, &vault.ShareCode, &vault.DownloadCount, &vault.CreatedAt, &ownerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", fmt.Errorf("db error: %w", err)
	}
	return vault, ownerName, nil
}

func (r *PostgresRepository) ShareCodeExists(ctx context.Context, shareCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM vaults WHERE share_code = $1)`, shareCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// ListByOwner returns the owner's vaults newest first, with confirmed-file
// count and total size aggregated per vault.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultListItem, error) {
	query :=
		`SELECT v.id, v.owner_id, v.name, v.description, v.visibility, v.password_hash,
		        v.share_code, v.download_count, v.created_at,
		        COUNT(f.id), COALESCE(SUM(f.size_bytes), 0)
		 FROM vaults v
		 LEFT JOIN files f ON f.vault_id = v.id
		 WHERE v.owner_id = $1
		 GROUP BY v.id
		 ORDER BY v.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultListItem
	for rows.Next() {
		var item models.VaultListItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Visibility,
			&item.PasswordHash, &item.ShareCode, &item.DownloadCount, &item.CreatedAt,
			&item.FileCount, &item.TotalSize); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites the mutable vault fields, scoped by owner. Zero rows
// affected reads as not found.
func (r *PostgresRepository) Update(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`UPDATE vaults SET name = $3, description = $4, visibility = $5, password_hash = $6
		 WHERE id = $1 AND owner_id = $2
		 RETURNING ` + vaultColumns

	updated := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query,
		vault.ID, vault.OwnerID, vault.Name, vault.Description, vault.Visibility, vault.PasswordHash).Scan(
		&updated.ID, &updated.OwnerID, &updated.Name, &updated.Description, &updated.Visibility,
		&updated.PasswordHash, &updated.ShareCode, &updated.DownloadCount, &updated.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE id = $1 AND owner_id = $2`, id, ownerID)
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

// IncrementDownloadCount bumps the counter atomically in the store, avoiding
// the lost-update race of a read-modify-write.
func (r *PostgresRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vaults SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// OwnerStats aggregates vault and file totals in two queries; a single
// join would double-count vault downloads per file row.
func (r *PostgresRepository) OwnerStats(ctx context.Context, ownerID string) (*models.OwnerStats, error) {
	stats := &models.OwnerStats{}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(download_count), 0) FROM vaults WHERE owner_id = $1`,
		ownerID).Scan(&stats.TotalVaults, &stats.TotalDownloads)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM files WHERE owner_id = $1`,
		ownerID).Scan(&stats.TotalFiles, &stats.TotalSize)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaultshare/internal/common"
	"vaultshare/internal/dbx"
	"vaultshare/internal/server/models"
)

const userColumns = `id, name, email, phone, bio, avatar_url, password_hash, two_fa_enabled, two_fa_secret, created_at`

// PostgresRepository implements user storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Bio,
		&user.AvatarURL, &user.PasswordHash, &user.TwoFAEnabled, &user.TwoFASecret, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail looks a user up by case-normalized email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users SET name = $2, phone = $3, bio = $4, avatar_url = $5
		 WHERE id = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Phone, user.Bio, user.AvatarURL))
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *PostgresRepository) SetTwoFASecret(ctx context.Context, id string, secret string) error {
	return r.execOne(ctx, `UPDATE users SET two_fa_secret = $2 WHERE id = $1`, id, secret)
}

func (r *PostgresRepository) EnableTwoFA(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET two_fa_enabled = TRUE WHERE id = $1`, id)
}

// DisableTwoFA clears both the flag and the stored secret so no stale
// secret survives a disable.
func (r *PostgresRepository) DisableTwoFA(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET two_fa_enabled = FALSE, two_fa_secret = NULL WHERE id = $1`, id)
}

// Delete removes the user row; vaults and files cascade at the schema level.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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

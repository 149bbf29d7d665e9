package models

import "time"

// Vault visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Vault is an owned collection of files shared via ShareCode.
// PasswordHash is non-nil iff Visibility is private.
type Vault struct {
	ID            string
	OwnerID       string
	Name          string
	Description   *string
	Visibility    string
	PasswordHash  *string
	ShareCode     string
	DownloadCount int64
	CreatedAt     time.Time
}

// Locked reports whether viewers need a password before seeing contents.
func (v *Vault) Locked() bool {
	return v.Visibility == VisibilityPrivate
}

// Public returns a copy with the password hash removed.
func (v *Vault) Public() *Vault {
	c := *v
	c.PasswordHash = nil
	return &c
}

// VaultListItem is a vault plus file aggregates for owner dashboards.
type VaultListItem struct {
	Vault
	FileCount int64
	TotalSize int64
}

// OwnerStats aggregates an owner's vaults and files.
type OwnerStats struct {
	TotalVaults    int64
	TotalFiles     int64
	TotalSize      int64
	TotalDownloads int64
}

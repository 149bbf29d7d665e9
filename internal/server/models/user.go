// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. PasswordHash and TwoFASecret are secrets:
// they must be cleared before the record crosses the HTTP boundary.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	Bio       *string
	AvatarURL *string

	PasswordHash string

	// TwoFAEnabled is only set after a TOTP code has been verified against
	// TwoFASecret. A stored secret with TwoFAEnabled=false means setup was
	// started but never completed; such a secret grants nothing.
	TwoFAEnabled bool
	TwoFASecret  *string

	CreatedAt time.Time
}

// Public returns a copy with secret fields removed, safe to serialize.
func (u *User) Public() *User {
	c := *u
	c.PasswordHash = ""
	c.TwoFASecret = nil
	return &c
}

// Package auth implements the credential primitives: password hashing,
// session token issuance/verification and TOTP two-factor codes.
package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt work factors. Account passwords get the higher cost; vault share
// passwords are verified on every unlock request and use the lower one.
const (
	AccountPasswordCost = 12
	VaultPasswordCost   = 10
)

// HashPassword produces a salted bcrypt digest of password at the given cost.
// The raw password is never stored or logged.
func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the bcrypt digest hash.
// bcrypt's comparison does not leak the mismatch position.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

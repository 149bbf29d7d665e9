// Package shared provides small utility helpers used by both the services
// and the HTTP layer.
package shared

import (
	"crypto/rand"
	"fmt"
)

// shareCodeAlphabet is the character set for vault share codes. Uppercase
// letters and digits only, so codes survive being read aloud or typed from
// a printed QR label.
const shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ShareCodeLength is the fixed length of a vault share code.
const ShareCodeLength = 8

// MakeShareCode generates a random share code of ShareCodeLength characters
// drawn from shareCodeAlphabet using crypto/rand. The code is a capability:
// it must not be guessable from other codes.
func MakeShareCode() (string, error) {
	b := make([]byte, ShareCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand error: %w", err)
	}
	for i := range b {
		b[i] = shareCodeAlphabet[int(b[i])%len(shareCodeAlphabet)]
	}
	return string(b), nil
}

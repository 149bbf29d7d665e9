package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpOpts are the verification parameters: standard 30-second steps,
// 6 digits, and a ±2 step tolerance window to absorb authenticator
// clock drift.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      2,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTOTPSecret creates a fresh shared secret (20 random bytes,
// base32-encoded) and the otpauth:// provisioning URI that authenticator
// apps scan. Generating a secret does not enable two-factor auth by itself.
func GenerateTOTPSecret(issuer, accountName string) (secret string, provisioningURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// VerifyTOTPCode reports whether code is a valid 6-digit TOTP for secret at
// the current time, within the tolerance window.
func VerifyTOTPCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totpOpts)
	return err == nil && ok
}

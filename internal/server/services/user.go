// Package services contains server-side business logic: accounts and
// sessions, vault management, uploads and share-link access.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"vaultshare/internal/common"
	"vaultshare/internal/server/auth"
	"vaultshare/internal/server/config"
	"vaultshare/internal/server/models"
	"vaultshare/internal/server/objstore"
	"vaultshare/internal/server/repositories/repomanager"
)

const minPasswordLength = 6

// LoginResult is the outcome of a successful credential check. When the
// account has two-factor auth enabled and no code was supplied, RequiresTwoFA
// is set and no token is issued.
type LoginResult struct {
	Token         string
	User          *models.User
	RequiresTwoFA bool
}

// TwoFASetup is returned from two-factor setup: the base32 secret, the
// otpauth provisioning URI and a QR code of that URI as a PNG data URL.
type TwoFASetup struct {
	Secret     string
	OtpauthURL string
	QRCode     string
}

// ProfileUpdate carries optional profile field changes; nil means unchanged.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
}

// UserService handles registration, login, session verification, profile
// management and the 2FA lifecycle.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	store         objstore.Store
	jwtSecret     []byte
	tokenValidity time.Duration
	totpIssuer    string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, store objstore.Store, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		store:         store,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		totpIssuer:    cfg.TOTPIssuer,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns it together with a session token.
// Duplicate emails (case-insensitive) yield common.ErrConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: an account with this email already exists", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, auth.AccountPasswordCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash error: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("token error: %w", err)
	}

	return user.Public(), token, nil
}

// Login verifies email+password and, when required, a TOTP code.
// An unknown email and a wrong password produce the same
// common.ErrInvalidCredentials so accounts cannot be enumerated.
func (s *UserService) Login(ctx context.Context, email, password, totpCode string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	if user.TwoFAEnabled {
		if totpCode == "" {
			return &LoginResult{RequiresTwoFA: true}, nil
		}
		if user.TwoFASecret == nil || !auth.VerifyTOTPCode(*user.TwoFASecret, totpCode) {
			return nil, common.ErrInvalidTwoFactorCode
		}
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("token error: %w", err)
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// Authenticate turns a bearer token into the authenticated user, or fails
// with common.ErrTokenExpired, common.ErrInvalidToken or (for tokens whose
// account no longer exists) common.ErrUnauthenticated. Secret fields are
// stripped from the returned user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: no such user", common.ErrUnauthenticated)
		}
		return nil, err
	}

	return user.Public(), nil
}

// Profile returns the account's public profile.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the non-nil fields of upd and returns the updated
// public profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", common.ErrValidation)
		}
		user.Name = name
	}
	if upd.Phone != nil {
		user.Phone = trimmedOrNil(*upd.Phone)
	}
	if upd.Bio != nil {
		user.Bio = trimmedOrNil(*upd.Bio)
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = trimmedOrNil(*upd.AvatarURL)
	}

	updated, err := repo.UpdateProfile(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return updated.Public(), nil
}

// ChangePassword re-proves the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return common.ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword, auth.AccountPasswordCost)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}
	return repo.UpdatePasswordHash(ctx, userID, hash)
}

// DeleteAccount re-proves the password, removes the account's stored objects
// and deletes the user row. Vaults and files cascade at the schema level.
func (s *UserService) DeleteAccount(ctx context.Context, userID, password string) error {
	userRepo := s.repomanager.Users(s.db)
	fileRepo := s.repomanager.Files(s.db)

	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return common.ErrWrongPassword
	}

	paths, err := fileRepo.StoragePathsByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, paths); err != nil {
		return fmt.Errorf("storage cleanup error: %w", err)
	}

	return userRepo.Delete(ctx, userID)
}

// SetupTwoFA generates a fresh shared secret and stores it without enabling
// two-factor auth: the secret only becomes active after VerifyTwoFA. Running
// setup again overwrites a pending, unverified secret.
func (s *UserService) SetupTwoFA(ctx context.Context, userID string) (*TwoFASetup, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("%s (%s)", s.totpIssuer, user.Email)
	secret, otpauthURL, err := auth.GenerateTOTPSecret(s.totpIssuer, label)
	if err != nil {
		return nil, fmt.Errorf("totp error: %w", err)
	}

	if err := repo.SetTwoFASecret(ctx, userID, secret); err != nil {
		return nil, err
	}

	qr, err := pngDataURL(otpauthURL)
	if err != nil {
		return nil, fmt.Errorf("qr error: %w", err)
	}

	return &TwoFASetup{Secret: secret, OtpauthURL: otpauthURL, QRCode: qr}, nil
}

// VerifyTwoFA checks code against the pending secret and, on success, flips
// two-factor auth on.
func (s *UserService) VerifyTwoFA(ctx context.Context, userID, code string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFASecret == nil {
		return common.ErrTwoFactorNotSetUp
	}
	if !auth.VerifyTOTPCode(*user.TwoFASecret, code) {
		return common.ErrInvalidTwoFactorCode
	}

	return repo.EnableTwoFA(ctx, userID)
}

// DisableTwoFA turns two-factor auth off. It is gated by the account
// password, not a TOTP code: disabling protection requires the stronger,
// already-known secret.
func (s *UserService) DisableTwoFA(ctx context.Context, userID, password string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return common.ErrWrongPassword
	}

	return repo.DisableTwoFA(ctx, userID)
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// pngDataURL renders content as a QR code and returns it as a data URL,
// matching what browser <img> tags expect.
func pngDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 300)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

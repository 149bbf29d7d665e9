package httpapi

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vaultshare/internal/common"
	"vaultshare/internal/dbx"
	"vaultshare/internal/logging"
	"vaultshare/internal/server/auth"
	"vaultshare/internal/server/config"
	"vaultshare/internal/server/models"
	filesrepo "vaultshare/internal/server/repositories/files"
	usersrepo "vaultshare/internal/server/repositories/users"
	vaultsrepo "vaultshare/internal/server/repositories/vaults"
	"vaultshare/internal/server/services"
)

// In-memory repositories backing real services, so handler tests exercise
// the full decode/service/encode path.

func errNotFound() error { return common.ErrNotFound }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type memUsersRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func (m *memUsersRepo) lookup(u *models.User, ok bool) (*models.User, error) {
	if !ok {
		return nil, errNotFound()
	}
	c := *u
	return &c, nil
}

func (m *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	c := *u
	c.ID = "u-new"
	c.CreatedAt = time.Now()
	return &c, nil
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	return m.lookup(u, ok)
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	return m.lookup(u, ok)
}

func (m *memUsersRepo) UpdateProfile(ctx context.Context, u *models.User) (*models.User, error) {
	c := *u
	return &c, nil
}

func (m *memUsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error { return nil }
func (m *memUsersRepo) SetTwoFASecret(ctx context.Context, id, secret string) error   { return nil }
func (m *memUsersRepo) EnableTwoFA(ctx context.Context, id string) error              { return nil }
func (m *memUsersRepo) DisableTwoFA(ctx context.Context, id string) error             { return nil }
func (m *memUsersRepo) Delete(ctx context.Context, id string) error                   { return nil }

type memVaultsRepo struct {
	byCode    map[string]*models.Vault
	ownerName string
}

func (m *memVaultsRepo) Create(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	c := *v
	c.ID = "v-new"
	c.CreatedAt = time.Now()
	return &c, nil
}

func (m *memVaultsRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	return nil, errNotFound()
}

func (m *memVaultsRepo) GetByShareCode(ctx context.Context, code string) (*models.Vault, string, error) {
	v, ok := m.byCode[code]
	if !ok {
		return nil, "", errNotFound()
	}
	c := *v
	return &c, m.ownerName, nil
}

func (m *memVaultsRepo) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	_, ok := m.byCode[code]
	return ok, nil
}

func (m *memVaultsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultListItem, error) {
	return nil, nil
}

func (m *memVaultsRepo) Update(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	c := *v
	return &c, nil
}

func (m *memVaultsRepo) Delete(ctx context.Context, id, ownerID string) error          { return nil }
func (m *memVaultsRepo) IncrementDownloadCount(ctx context.Context, id string) error   { return nil }
func (m *memVaultsRepo) OwnerStats(ctx context.Context, ownerID string) (*models.OwnerStats, error) {
	return &models.OwnerStats{}, nil
}

type memFilesRepo struct {
	byVault map[string][]*models.File
}

func (m *memFilesRepo) Create(ctx context.Context, f *models.File) (*models.File, error) {
	c := *f
	c.ID = "f-new"
	return &c, nil
}

func (m *memFilesRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	return nil, errNotFound()
}

func (m *memFilesRepo) GetConfirmedInVault(ctx context.Context, id, vaultID string) (*models.File, error) {
	for _, f := range m.byVault[vaultID] {
		if f.ID == id && f.Confirmed {
			c := *f
			return &c, nil
		}
	}
	return nil, errNotFound()
}

func (m *memFilesRepo) ListByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	return m.byVault[vaultID], nil
}

func (m *memFilesRepo) ListConfirmedByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	var confirmed []*models.File
	for _, f := range m.byVault[vaultID] {
		if f.Confirmed {
			confirmed = append(confirmed, f)
		}
	}
	return confirmed, nil
}

func (m *memFilesRepo) Confirm(ctx context.Context, ids []string, ownerID string) ([]*models.File, error) {
	return nil, nil
}

func (m *memFilesRepo) Delete(ctx context.Context, id, ownerID string) error        { return nil }
func (m *memFilesRepo) IncrementDownloadCount(ctx context.Context, id string) error { return nil }
func (m *memFilesRepo) StoragePathsByVault(ctx context.Context, vaultID string) ([]string, error) {
	return nil, nil
}
func (m *memFilesRepo) StoragePathsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return nil, nil
}

type memRepoManager struct {
	u *memUsersRepo
	v *memVaultsRepo
	f *memFilesRepo
}

func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository        { return m.u }
func (m *memRepoManager) Vaults(db dbx.DBTX) vaultsrepo.Repository      { return m.v }
func (m *memRepoManager) Files(db dbx.DBTX) filesrepo.Repository        { return m.f }
func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }

type memStore struct{}

func (memStore) SignedUploadURL(ctx context.Context, key string) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (memStore) SignedDownloadURL(ctx context.Context, key string, ttl time.Duration, displayName string) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (memStore) Remove(ctx context.Context, keys []string) error { return nil }

// fixture builders

const testSecretKey = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             testSecretKey,
		TokenValidityDuration: time.Hour,
		TOTPIssuer:            "VaultShare",
		AppURL:                "https://vault.example.com",
	}
}

func newTestHandler(rm *memRepoManager) *Handler {
	cfg := testConfig()
	store := memStore{}
	us := services.NewUserService(nil, rm, store, cfg)
	vs := services.NewVaultService(nil, rm, store)
	fs := services.NewFileService(nil, rm, store, nopLogger{})
	ss := services.NewShareService(nil, rm, fs, cfg.AppURL)
	return NewHandler(us, vs, fs, ss, nopLogger{})
}

func emptyRepoManager() *memRepoManager {
	return &memRepoManager{
		u: &memUsersRepo{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}},
		v: &memVaultsRepo{byCode: map[string]*models.Vault{}},
		f: &memFilesRepo{byVault: map[string][]*models.File{}},
	}
}

func mustHashFast(password string) string {
	h, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

func sessionToken(userID string) string {
	tok, err := auth.GenerateToken(userID, []byte(testSecretKey), time.Hour)
	if err != nil {
		panic(err)
	}
	return tok
}

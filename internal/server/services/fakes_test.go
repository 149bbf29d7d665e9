package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"vaultshare/internal/dbx"
	"vaultshare/internal/logging"
	"vaultshare/internal/server/models"
	filesrepo "vaultshare/internal/server/repositories/files"
	"vaultshare/internal/server/repositories/repomanager"
	usersrepo "vaultshare/internal/server/repositories/users"
	vaultsrepo "vaultshare/internal/server/repositories/vaults"
)

// --- shared test doubles ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byID    *models.User
	byIDErr error

	byEmail    *models.User
	byEmailErr error

	updateErr error

	updatedHash   string
	storedSecret  string
	setSecretErr  error
	enabledID     string
	disabledID    string
	deletedID     string
	deleteErr     error
	enableErr     error
	disableErr    error
	updatePwdHash error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	c := *u
	c.ID = "new-user"
	return &c, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	c := *f.byID
	return &c, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	c := *f.byEmail
	return &c, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, u *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	f.updatedHash = hash
	return f.updatePwdHash
}

func (f *fakeUsersRepo) SetTwoFASecret(ctx context.Context, id, secret string) error {
	f.storedSecret = secret
	return f.setSecretErr
}

func (f *fakeUsersRepo) EnableTwoFA(ctx context.Context, id string) error {
	f.enabledID = id
	return f.enableErr
}

func (f *fakeUsersRepo) DisableTwoFA(ctx context.Context, id string) error {
	f.disabledID = id
	return f.disableErr
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeVaultsRepo struct {
	created      *models.Vault
	createErr    error
	byIDOut      *models.Vault
	byIDErr      error
	byCodeOut    *models.Vault
	byCodeOwner  string
	byCodeErr    error
	codeExists   bool
	codeCheckErr error
	listOut      []*models.VaultListItem
	listErr      error
	updateOut    *models.Vault
	updateErr    error
	deletedID    string
	deleteErr    error
	incremented  []string
	incErr       error
	statsOut     *models.OwnerStats
	statsErr     error
}

func (f *fakeVaultsRepo) Create(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *v
	c.ID = "new-vault"
	f.created = &c
	return &c, nil
}

func (f *fakeVaultsRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	c := *f.byIDOut
	return &c, nil
}

func (f *fakeVaultsRepo) GetByShareCode(ctx context.Context, code string) (*models.Vault, string, error) {
	if f.byCodeErr != nil {
		return nil, "", f.byCodeErr
	}
	c := *f.byCodeOut
	return &c, f.byCodeOwner, nil
}

func (f *fakeVaultsRepo) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	return f.codeExists, f.codeCheckErr
}

func (f *fakeVaultsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.VaultListItem, error) {
	return f.listOut, f.listErr
}

func (f *fakeVaultsRepo) Update(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	c := *v
	return &c, nil
}

func (f *fakeVaultsRepo) Delete(ctx context.Context, id, ownerID string) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeVaultsRepo) IncrementDownloadCount(ctx context.Context, id string) error {
	f.incremented = append(f.incremented, id)
	return f.incErr
}

func (f *fakeVaultsRepo) OwnerStats(ctx context.Context, ownerID string) (*models.OwnerStats, error) {
	return f.statsOut, f.statsErr
}

type fakeFilesRepo struct {
	created      []*models.File
	createErr    error
	byIDOut      *models.File
	byIDErr      error
	confirmedOut *models.File
	confirmedErr error
	listOut      []*models.File
	listErr      error
	confirmOut   []*models.File
	confirmErr   error
	confirmedIDs []string
	deletedID    string
	deleteErr    error
	incremented  []string
	incErr       error
	vaultPaths   []string
	ownerPaths   []string
	pathsErr     error
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *file
	c.ID = "new-file"
	f.created = append(f.created, &c)
	return &c, nil
}

func (f *fakeFilesRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	c := *f.byIDOut
	return &c, nil
}

func (f *fakeFilesRepo) GetConfirmedInVault(ctx context.Context, id, vaultID string) (*models.File, error) {
	if f.confirmedErr != nil {
		return nil, f.confirmedErr
	}
	c := *f.confirmedOut
	return &c, nil
}

func (f *fakeFilesRepo) ListByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	return f.listOut, f.listErr
}

func (f *fakeFilesRepo) ListConfirmedByVault(ctx context.Context, vaultID string) ([]*models.File, error) {
	return f.listOut, f.listErr
}

func (f *fakeFilesRepo) Confirm(ctx context.Context, ids []string, ownerID string) ([]*models.File, error) {
	f.confirmedIDs = ids
	return f.confirmOut, f.confirmErr
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id, ownerID string) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeFilesRepo) IncrementDownloadCount(ctx context.Context, id string) error {
	f.incremented = append(f.incremented, id)
	return f.incErr
}

func (f *fakeFilesRepo) StoragePathsByVault(ctx context.Context, vaultID string) ([]string, error) {
	return f.vaultPaths, f.pathsErr
}

func (f *fakeFilesRepo) StoragePathsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return f.ownerPaths, f.pathsErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	v *fakeVaultsRepo
	f *fakeFilesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository   { return m.u }
func (m *fakeRepoManager) Vaults(db dbx.DBTX) vaultsrepo.Repository { return m.v }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository   { return m.f }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

type fakeStore struct {
	uploadErr   error
	downloadErr error
	removeErr   error

	signedKeys  []string
	lastTTL     time.Duration
	lastDisplay string
	removed     [][]string
}

func (f *fakeStore) SignedUploadURL(ctx context.Context, key string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.signedKeys = append(f.signedKeys, key)
	return "https://storage.test/put/" + key, nil
}

func (f *fakeStore) SignedDownloadURL(ctx context.Context, key string, ttl time.Duration, displayName string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	f.signedKeys = append(f.signedKeys, key)
	f.lastTTL = ttl
	f.lastDisplay = displayName
	return "https://storage.test/get/" + key, nil
}

func (f *fakeStore) Remove(ctx context.Context, keys []string) error {
	f.removed = append(f.removed, keys)
	return f.removeErr
}

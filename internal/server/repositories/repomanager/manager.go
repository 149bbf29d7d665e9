// Package repomanager hands out repository implementations bound to a
// *sql.DB or an open transaction, so services can run multi-repository
// operations inside one transaction via dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"vaultshare/internal/dbx"
	"vaultshare/internal/server/repositories/files"
	"vaultshare/internal/server/repositories/users"
	"vaultshare/internal/server/repositories/vaults"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Vaults(db dbx.DBTX) vaults.Repository
	Files(db dbx.DBTX) files.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

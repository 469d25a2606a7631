package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a connection or transaction
// and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	RollbackMigration(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/nkarpov/authd/internal/dbx"
	"github.com/nkarpov/authd/internal/server/repositories/accounts"
	"github.com/nkarpov/authd/internal/server/repositories/sessiontokens"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	SessionTokens(db dbx.DBTX) sessiontokens.Repository
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/nkarpov/authd/internal/dbx"
	"github.com/nkarpov/authd/internal/server/repositories/accounts"
	"github.com/nkarpov/authd/internal/server/repositories/sessiontokens"
)

// InMemoryRepositoryManager vends shared in-memory repositories. It backs
// tests and local development without PostgreSQL; the DBTX argument is
// ignored.
type InMemoryRepositoryManager struct {
	accounts      *accounts.InMemoryRepository
	sessionTokens *sessiontokens.InMemoryRepository
}

// NewInMemoryRepositoryManager constructs a manager over fresh empty
// repositories.
func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts:      accounts.NewInMemoryRepository(),
		sessionTokens: sessiontokens.NewInMemoryRepository(),
	}
}

// RunMigrations is a no-op: there is no schema.
func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// Accounts returns the shared in-memory accounts repository.
func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

// SessionTokens returns the shared in-memory session token repository.
func (m *InMemoryRepositoryManager) SessionTokens(dbx.DBTX) sessiontokens.Repository {
	return m.sessionTokens
}

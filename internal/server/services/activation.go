package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/server/repositories/repomanager"
)

// ActivationManager generates activation identifiers and flips the activated
// flag on accounts that present one.
type ActivationManager struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewActivationManager constructs an ActivationManager over the given
// repositories.
func NewActivationManager(db *sql.DB, m repomanager.RepositoryManager) *ActivationManager {
	return &ActivationManager{db: db, repomanager: m}
}

// NewActivationID returns a fresh unguessable activation identifier
// (uuid v4, 122 bits of entropy).
func (m *ActivationManager) NewActivationID() string {
	return uuid.NewString()
}

// Activate marks the account holding presentedID as activated. Unknown
// identifiers yield common.ErrInvalidActivationLink. Activating an already
// activated account with the same identifier is a no-op success: the
// identifier is retained after activation, so reusing the link must not
// error.
func (m *ActivationManager) Activate(ctx context.Context, presentedID string) error {
	repo := m.repomanager.Accounts(m.db)

	account, err := repo.GetByActivationID(ctx, presentedID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidActivationLink
		}
		return common.ErrorInternal
	}

	if account.Activated {
		return nil
	}

	account.Activated = true
	if err := repo.Save(ctx, account); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Package accounts declares the server-side repository contract for account
// records in persistent storage.
package accounts

import (
	"context"

	"github.com/nkarpov/authd/internal/server/models"
)

// Repository defines persistence operations over account records.
type Repository interface {
	// Create inserts a new account. When the email is already taken it
	// returns common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail looks an account up by its exact (byte-compared) email.
	// Implementations return common.ErrorNotFound when the account is absent.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID looks an account up by its id.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByActivationID looks an account up by its activation identifier.
	GetByActivationID(ctx context.Context, activationID string) (*models.Account, error)

	// Save persists the mutable fields of an existing account.
	Save(ctx context.Context, account *models.Account) error

	// GetAll returns all accounts ordered by creation time.
	GetAll(ctx context.Context) ([]*models.Account, error)
}

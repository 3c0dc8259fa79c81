// Package sessiontokens declares the server-side repository contract for the
// single stored refresh token of each account.
package sessiontokens

import (
	"context"

	"github.com/nkarpov/authd/internal/server/models"
)

// Repository manages the per-account session token slot. Implementations
// guarantee at most one stored token per account at any time.
type Repository interface {
	// Put unconditionally stores token as the account's session token,
	// replacing any previous one ("new session wins").
	Put(ctx context.Context, accountID, token string) error

	// CompareAndReplace atomically replaces the stored token with newToken
	// only if the current value equals oldToken. It reports whether the
	// replacement happened; a false result means the slot changed underneath
	// the caller and nothing was modified.
	CompareAndReplace(ctx context.Context, accountID, oldToken, newToken string) (bool, error)

	// Remove deletes the row whose stored value matches token and reports
	// whether a row was removed. Removing an absent token is not an error.
	Remove(ctx context.Context, token string) (bool, error)

	// FindByValue returns the session token row holding the given value.
	// Implementations return common.ErrorNotFound when no such row exists.
	FindByValue(ctx context.Context, token string) (*models.SessionToken, error)
}

package sessiontokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/dbx"
	"github.com/nkarpov/authd/internal/server/models"
)

// PostgresRepository implements the session token slot over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx). The account_id primary key makes the
// single-token-per-account invariant a schema property.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put upserts the account's session token row.
func (r *PostgresRepository) Put(ctx context.Context, accountID, token string) error {
	query := `
		INSERT INTO session_tokens (account_id, token, issued_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_id) DO UPDATE SET token = EXCLUDED.token, issued_at = EXCLUDED.issued_at
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CompareAndReplace runs a single conditional UPDATE; Postgres executes it
// atomically per row, so of two racing calls with the same oldToken exactly
// one observes a row to update.
func (r *PostgresRepository) CompareAndReplace(ctx context.Context, accountID, oldToken, newToken string) (bool, error) {
	query := `
		UPDATE session_tokens
		SET token = $3, issued_at = now()
		WHERE account_id = $1 AND token = $2
	`
	res, err := r.db.ExecContext(ctx, query, accountID, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}

// Remove deletes the row holding token and reports whether one existed.
func (r *PostgresRepository) Remove(ctx context.Context, token string) (bool, error) {
	query := `
		DELETE FROM session_tokens
		WHERE token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

// FindByValue returns the row whose stored value equals token, or
// common.ErrorNotFound.
func (r *PostgresRepository) FindByValue(ctx context.Context, token string) (*models.SessionToken, error) {
	query := `
		SELECT account_id, token, issued_at
		FROM session_tokens
		WHERE token = $1
	`
	sessionToken := &models.SessionToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&sessionToken.AccountID, &sessionToken.Token, &sessionToken.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sessionToken, nil
}

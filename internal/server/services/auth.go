// Package services contains server-side business logic. This file implements
// AuthService, which orchestrates account registration, activation, login,
// logout and refresh-token rotation.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/dbx"
	"github.com/nkarpov/authd/internal/logging"
	"github.com/nkarpov/authd/internal/server/auth"
	"github.com/nkarpov/authd/internal/server/config"
	"github.com/nkarpov/authd/internal/server/mail"
	"github.com/nkarpov/authd/internal/server/models"
	"github.com/nkarpov/authd/internal/server/repositories/repomanager"
)

// mailDispatchTimeout bounds the background activation mail send.
const mailDispatchTimeout = 10 * time.Second

// AuthResult is returned by the operations that establish a session: the
// freshly minted token pair plus the public view of the account.
type AuthResult struct {
	Tokens  *auth.TokenPair
	Account *models.AccountView
}

// AuthService provides the account and session lifecycle:
//   - Register: create an account, dispatch the activation mail, open a session
//   - Activate: flip the activated flag for a presented activation id
//   - Login: verify credentials and open a session, superseding any prior one
//   - Logout: drop the stored session token
//   - Refresh: rotate the session token pair
//   - ListAccounts: administrative listing of account views
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	issuer      *auth.Issuer
	activation  *ActivationManager
	mailer      mail.Sender
	logger      logging.Logger
	baseURL     string
}

// NewAuthService constructs an AuthService using repositories, the token
// issuer, the mail collaborator, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, mailer mail.Sender, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewPasswordHasher(cfg.BcryptCost),
		issuer:      issuer,
		activation:  NewActivationManager(db, m),
		mailer:      mailer,
		logger:      logger.With("module", "auth_service"),
		baseURL:     cfg.BaseURL,
	}
}

// Register creates an unactivated account for the given credentials, stores
// a fresh session token and dispatches the activation mail. The mail send is
// fire-and-forget: its failure never rolls the account back.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateAccount
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		ActivationID: s.activation.NewActivationID(),
	}

	var pair *auth.TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Accounts(tx).Create(ctx, account)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				// Lost a race against a concurrent registration.
				return common.ErrDuplicateAccount
			}
			return fmt.Errorf("error creating account: %w", err)
		}
		account = created

		pair, err = s.issuer.IssuePair(account.ID)
		if err != nil {
			return fmt.Errorf("error issuing tokens: %w", err)
		}
		return s.repomanager.SessionTokens(tx).Put(ctx, account.ID, pair.RefreshToken)
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, common.ErrDuplicateAccount
		}
		s.logger.Error(ctx, "registration failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.dispatchActivationMail(account.Email, account.ActivationID)

	return &AuthResult{Tokens: pair, Account: account.View()}, nil
}

// Activate delegates to the ActivationManager.
func (s *AuthService) Activate(ctx context.Context, activationID string) error {
	return s.activation.Activate(ctx, activationID)
}

// Login verifies the credentials and opens a fresh session. The new token
// unconditionally supersedes any session the account already held, which
// invalidates a previously issued refresh token even without logout.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(account.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.SessionTokens(s.db).Put(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Tokens: pair, Account: account.View()}, nil
}

// Logout removes the stored session token matching refreshToken and reports
// whether one was removed. Logging out an absent token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) (bool, error) {
	removed, err := s.repomanager.SessionTokens(s.db).Remove(ctx, refreshToken)
	if err != nil {
		return false, common.ErrorInternal
	}
	return removed, nil
}

// Refresh validates refreshToken, rotates the stored session token through an
// atomic compare-and-replace, and returns a fresh pair. Any failed check and
// a lost rotation race yield common.ErrUnauthenticated: of two refreshes
// racing on the same token exactly one wins, the other must re-authenticate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	tokenRepo := s.repomanager.SessionTokens(s.db)
	stored, err := tokenRepo.FindByValue(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrorInternal
	}
	// Honor the stored row only for the account the token was minted for.
	if stored.AccountID != claims.AccountID {
		return nil, common.ErrUnauthenticated
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrorInternal
	}

	pair, err := s.issuer.IssuePair(account.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	replaced, err := tokenRepo.CompareAndReplace(ctx, account.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !replaced {
		// The slot changed underneath us: another request already advanced
		// the session with this token.
		return nil, common.ErrUnauthenticated
	}

	return &AuthResult{Tokens: pair, Account: account.View()}, nil
}

// ListAccounts returns the public views of all accounts.
func (s *AuthService) ListAccounts(ctx context.Context) ([]*models.AccountView, error) {
	all, err := s.repomanager.Accounts(s.db).GetAll(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	views := make([]*models.AccountView, 0, len(all))
	for _, account := range all {
		views = append(views, account.View())
	}
	return views, nil
}

// dispatchActivationMail hands the activation message to the mail
// collaborator in the background. Delivery failures are logged, never
// propagated.
func (s *AuthService) dispatchActivationMail(email, activationID string) {
	activationURL := s.baseURL + "/api/activate/" + activationID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()
		if err := s.mailer.SendActivationMail(ctx, email, activationURL); err != nil {
			s.logger.Warn(ctx, "activation mail delivery failed", "email", email, "error", err)
		}
	}()
}

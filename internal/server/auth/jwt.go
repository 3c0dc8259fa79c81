// Package auth provides the credential primitives of the server: HS256-signed
// access/refresh token pairs and bcrypt password verifiers.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nkarpov/authd/internal/common"
)

// Token type tags embedded in the claims so that an access token can never
// be replayed as a refresh token, or the other way around.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims carries the registered JWT claims plus the account id and a token
// type tag.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"uid"`
	TokenType string `json:"tkn"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. The pair is transient: only the refresh half is ever persisted,
// and only as a bare string.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer mints and verifies signed token pairs. Issuing has no side effects;
// it is a function of its inputs and the current time.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer constructs an Issuer with the process-wide signing secret and
// the configured token lifetimes.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair mints a new access/refresh token pair for the given account.
func (i *Issuer) IssuePair(accountID string) (*TokenPair, error) {
	access, err := i.sign(accountID, tokenTypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(accountID, tokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(accountID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// iat/exp have second precision, so the jti is what keeps two
			// tokens minted in the same second distinct. Session rotation
			// relies on that.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		TokenType: tokenType,
	})
	return token.SignedString(i.secret)
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(tokenString string) (*Claims, error) {
	return i.verify(tokenString, tokenTypeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(tokenString string) (*Claims, error) {
	return i.verify(tokenString, tokenTypeRefresh)
}

func (i *Issuer) verify(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != tokenType || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

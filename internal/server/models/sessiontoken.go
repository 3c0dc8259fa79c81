package models

import "time"

// SessionToken is the single stored refresh token of an account. At most one
// row exists per account: issuing a new token always replaces the previous
// row, never appends to it.
type SessionToken struct {
	AccountID string
	Token     string
	IssuedAt  time.Time
}

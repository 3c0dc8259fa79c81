package models

import "time"

// Account is a registered identity. PasswordHash is an opaque one-way
// verifier; the plaintext never reaches storage. ActivationID is the
// unguessable identifier mailed out on registration. It is retained after
// activation, matching the upstream behavior; Activate treats a reused
// identifier as a no-op success.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Activated    bool
	ActivationID string
	CreatedAt    time.Time
}

// AccountView is the projection of Account exposed to callers. It never
// carries the password verifier or the activation identifier.
type AccountView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Activated bool   `json:"activated"`
}

// View returns the caller-facing projection of the account.
func (a *Account) View() *AccountView {
	return &AccountView{ID: a.ID, Email: a.Email, Activated: a.Activated}
}

package domain

import (
	"errors"
	"time"
)

// Identity is the signed-in user as reported by the identity backend.
type Identity struct {
	UID          string    `json:"uid"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photoURL"`
	Provider     string    `json:"provider"`
	Credential   string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}

// Clone returns a deep copy; nil stays nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ExpiresWithin reports whether the bearer credential expires within d.
// A zero ExpiresAt is treated as unknown and never expiring.
func (i *Identity) ExpiresWithin(now time.Time, d time.Duration) bool {
	if i == nil || i.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(i.ExpiresAt)
}

// FederatedCredential is what the browser posts after the provider popup.
// ErrorCode is set instead of IDToken when the popup failed.
type FederatedCredential struct {
	ProviderID string
	IDToken    string
	ErrorCode  string
}

// ProfileUpdate carries the identity fields a user can change. Nil fields are untouched.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// UpsertOutcome tells whether a backend user record was created or already existed.
type UpsertOutcome string

const (
	UpsertInserted      UpsertOutcome = "inserted"
	UpsertAlreadyExists UpsertOutcome = "already_exists"
)

var (
	ErrNotSignedIn       = errors.New("no signed-in identity")
	ErrSessionClosed     = errors.New("session closed")
	ErrUnknownRole       = errors.New("unknown role")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotCancellable    = errors.New("application can no longer be cancelled")
	ErrUploadFailed      = errors.New("image upload failed")
	ErrPaymentIncomplete = errors.New("payment has not been completed")
)

/*
Package user contains the account record and the account use-cases: registration,
credential checks, social sign-in upserts and profile edits.
*/
package user

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by a Store when no user matches.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned by a Store when the email is already registered.
	ErrDuplicateEmail = errors.New("user email already exists")

	// ErrAccountNotLinked is returned by a Store when a social identity matches the
	// email of an account that may not link it (see CanLinkProvider).
	ErrAccountNotLinked = errors.New("social identity not linked to existing account")
)

// User is the persisted account record.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         string     `json:"image"`

	// HashedPassword is empty for accounts created through a social provider.
	HashedPassword string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanLinkProvider reports whether a social identity with the same email may be
// attached to u. An unverified email proves nothing about who registered it.
func (u User) CanLinkProvider() bool {
	return u.EmailVerified != nil
}

// HasPassword reports whether the account can sign in with credentials.
func (u User) HasPassword() bool {
	return u.HashedPassword != ""
}

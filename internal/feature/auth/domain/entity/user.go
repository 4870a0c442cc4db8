// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// AuthProvider identifies how a user registered.
type AuthProvider string

const (
	// ProviderEmail is used for accounts created with email and password.
	ProviderEmail AuthProvider = "email"
	// ProviderApple is reserved for Sign in with Apple accounts.
	ProviderApple AuthProvider = "apple"
)

// User represents a registered user in the directory.
// Records are created on signup and never mutated afterwards.
type User struct {
	// ID is the unique, stable identifier for the user.
	ID string

	// Email is the user's email address used for authentication.
	// It must be unique across all users (exact, case-sensitive match).
	Email string

	// Name is the display name given at signup.
	Name string

	// PasswordHash is the bcrypt hash of the user's password.
	// It must never be sent to clients.
	PasswordHash string `json:"-"`

	// AuthProvider records how the account was created.
	AuthProvider AuthProvider

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
}

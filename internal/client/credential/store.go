// Package credential persists the client's session token between runs.
package credential

import "errors"

// ErrCorrupted is returned when a stored token cannot be decrypted.
var ErrCorrupted = errors.New("credential: stored token is corrupted")

// Store holds at most one session token.
//
// Save overwrites any previous token. Get reports ok=false when nothing is stored.
// Delete of an absent token is not an error.
type Store interface {
	Save(token string) error
	Get() (token string, ok bool, err error)
	Delete() error
}

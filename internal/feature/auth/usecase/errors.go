package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("user already exists with this email")

	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned by Validate when the bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingFields is returned when a required input is empty.
	ErrMissingFields = errors.New("required fields are missing")
)

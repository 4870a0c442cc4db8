package authclient

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// ValidEmail reports whether email looks like local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword reports whether password has at least MinPasswordLength characters,
// one letter and one digit.
func ValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func validateLogin(email, password string) error {
	if !ValidEmail(email) {
		return validationError(MsgInvalidEmail)
	}
	if password == "" {
		return validationError(MsgEmptyPassword)
	}
	return nil
}

func validateSignUp(name, email, password string) error {
	if name == "" {
		return validationError(MsgEmptyName)
	}
	if !ValidEmail(email) {
		return validationError(MsgInvalidEmail)
	}
	if !ValidPassword(password) {
		return validationError(MsgWeakPassword)
	}
	return nil
}

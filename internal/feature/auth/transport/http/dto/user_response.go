package dto

import "unseen/internal/feature/auth/domain/entity"

// TimeLayout is the ISO-8601 form used for createdAt (UTC, millisecond precision).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// UserRes is the public representation of a user. It never carries the password hash.
type UserRes struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AuthProvider string `json:"authProvider"`
	CreatedAt    string `json:"createdAt"`
}

// AuthRes is returned by signup and login.
type AuthRes struct {
	User  UserRes `json:"user"`
	Token string  `json:"token"`
}

// MessageRes is the body of every error response.
type MessageRes struct {
	Message string `json:"message"`
}

// NewUserRes converts a domain user into its wire form with an ISO-8601 createdAt.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		AuthProvider: string(u.AuthProvider),
		CreatedAt:    u.CreatedAt.UTC().Format(TimeLayout),
	}
}

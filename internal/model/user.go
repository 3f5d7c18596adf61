package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// Principal identifies the signed-in user for the duration of one request.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

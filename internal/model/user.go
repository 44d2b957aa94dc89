// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash is the argon2id PHC string and never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

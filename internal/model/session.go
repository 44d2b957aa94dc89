package model

import "time"

// Subject is the authenticated identity bound to a session: a snapshot of the
// user taken at login, not a live join against the users table. SessionID
// identifies the session record for logging without exposing the token.
type Subject struct {
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

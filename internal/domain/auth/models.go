package auth

import "time"

type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (a Account) Identity(sessionID string) Identity {
	return Identity{UserID: a.ID, Username: a.Username, Role: a.Role, Active: a.Active, SessionID: sessionID}
}

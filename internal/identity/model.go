package identity

import "time"

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	PhotoURL     string
	TokenVersion int
	CreatedAt    time.Time
	LastLogin    time.Time
}

// Credentials request structure.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

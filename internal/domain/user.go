package domain

import "time"

// User is a registered account.
//
// Identity is the username (unique, case-sensitive). The password is
// stored only as its salted hash in "salt-hex:hash-hex" form.
type User struct {
	// Username is the canonical unique identifier.
	Username string `json:"username"`

	// PasswordHash is the salted PBKDF2 hash, "salt-hex:hash-hex".
	PasswordHash string `json:"password_hash"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser builds a user with CreatedAt set to now.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

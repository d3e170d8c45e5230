package users

import "time"

// User is a stored account. PasswordHash is argon2id over the password and
// Salt.
type User struct {
	Username     string
	Email        string
	ImageData    string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}

// NewUser is a registration request.
type NewUser struct {
	Username  string
	Email     string
	Password  string
	ImageData string
}

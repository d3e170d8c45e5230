package models

// UserRecord is one entry of the remote directory. ImageData is either empty
// or a data URI.
type UserRecord struct {
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email" yaml:"email"`
	ImageData string `json:"image_base64" yaml:"image_base64,omitempty"`
}

// NewUser is the create payload. It is the only type carrying a password.
type NewUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ImageData string `json:"image_base64"`
}

// UserUpdate is the update payload. Username selects the record and cannot be
// changed.
type UserUpdate struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageData string `json:"image_base64"`
}

// Registration is the self-service sign-up form before validation.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	ImageData       string
	// ImageErr is a pending image rejection that blocks submission.
	ImageErr error
}

// NewUser drops the confirmation and returns the create payload.
func (r Registration) NewUser() NewUser {
	return NewUser{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		ImageData: r.ImageData,
	}
}

package models

// Mode selects which fields of a form are editable.
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeView   Mode = "view"
	ModeUpdate Mode = "update"
)

// AddDraft collects a new user before submission.
type AddDraft struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	ImageData       string
}

// UpdateDraft edits an existing user. Username is fixed at open time.
type UpdateDraft struct {
	Username  string
	Email     string
	ImageData string
}

// ViewDraft shows a record without any way to change it.
type ViewDraft struct {
	Record UserRecord
}

// NewUser converts the draft to the create payload.
func (d AddDraft) NewUser() NewUser {
	return NewUser{
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.Password,
		ImageData: d.ImageData,
	}
}

// Update converts the draft to the update payload.
func (d UpdateDraft) Update() UserUpdate {
	return UserUpdate{
		Username:  d.Username,
		Email:     d.Email,
		ImageData: d.ImageData,
	}
}

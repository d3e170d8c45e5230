package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"gopkg.in/yaml.v3"
)

func renderUsers(w io.Writer, users []models.UserRecord) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tEMAIL\tIMAGE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, u.Email, imagex.Describe(u.ImageData))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d user(s)\n", len(users))
}

type recordView struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Image    string `yaml:"image"`
}

func renderRecord(w io.Writer, rec models.UserRecord) error {
	return yaml.NewEncoder(w).Encode(recordView{
		Username: rec.Username,
		Email:    rec.Email,
		Image:    imagex.Describe(rec.ImageData),
	})
}

type profileView struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email"`
	Image          string `yaml:"image"`
	SessionExpires string `yaml:"session_expires"`
	TokenExpires   string `yaml:"token_expires,omitempty"`
}

func renderProfile(w io.Writer, rec models.UserRecord, sessionExpires time.Time, tokenExpires time.Time) error {
	v := profileView{
		Username:       rec.Username,
		Email:          rec.Email,
		Image:          imagex.Describe(rec.ImageData),
		SessionExpires: sessionExpires.Local().Format(time.RFC1123),
	}
	if !tokenExpires.IsZero() {
		v.TokenExpires = tokenExpires.Local().Format(time.RFC1123)
	}
	return yaml.NewEncoder(w).Encode(v)
}

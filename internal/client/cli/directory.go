package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/form"
	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/common"
)

// List prints the directory.
func (a *App) List(ctx context.Context) error {
	return a.protected(ctx, a.listView)
}

func (a *App) listView(ctx context.Context) error {
	users, err := a.directory.List(ctx)
	if err != nil {
		return a.reportDirectoryErr(ctx, err, "Unable to load users")
	}
	renderUsers(a.out, users)
	return nil
}

// View shows one record read-only.
func (a *App) View(ctx context.Context, username string) error {
	return a.protected(ctx, func(ctx context.Context) error {
		rec, err := a.find(ctx, username)
		if err != nil || rec == nil {
			return err
		}

		ctl := form.NewController(a.directory, a.images)
		ctl.OpenView(*rec)
		defer ctl.Cancel()

		return renderRecord(a.out, ctl.Record())
	})
}

// Add opens an empty add form.
func (a *App) Add(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context) error {
		ctl := form.NewController(a.directory, a.images)
		ctl.OpenAdd()
		return a.runForm(ctx, ctl, "User added.", "Error adding user")
	})
}

// Update opens an update form pre-filled from the current server record.
func (a *App) Update(ctx context.Context, username string) error {
	return a.protected(ctx, func(ctx context.Context) error {
		rec, err := a.find(ctx, username)
		if err != nil || rec == nil {
			return err
		}

		ctl := form.NewController(a.directory, a.images)
		ctl.OpenUpdate(*rec)
		return a.runForm(ctx, ctl, "User updated.", "Error updating user")
	})
}

// Delete removes username after confirmation and re-lists the directory.
// Deleting yourself is refused by the server and the list is shown again
// unchanged.
func (a *App) Delete(ctx context.Context, username string) error {
	return a.protected(ctx, func(ctx context.Context) error {
		ok, err := Confirm(a.reader, fmt.Sprintf("Delete user %s?", username), a.out)
		if err != nil {
			return err
		}
		if !ok {
			a.println("Cancelled.")
			return nil
		}

		err = a.directory.Delete(ctx, username)
		switch {
		case err == nil:
			a.println("User deleted successfully.")
		case errors.Is(err, client.ErrForbiddenSelfDelete):
			a.println(describe(err, ""))
		default:
			return a.reportDirectoryErr(ctx, err, "Error deleting user")
		}

		if lerr := a.listView(ctx); lerr != nil {
			return lerr
		}
		return err
	})
}

// find looks username up in a fresh listing. A missing user is reported and
// yields nil, nil.
func (a *App) find(ctx context.Context, username string) (*models.UserRecord, error) {
	users, err := a.directory.List(ctx)
	if err != nil {
		return nil, a.reportDirectoryErr(ctx, err, "Unable to load users")
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	a.println("No such user:", username)
	return nil, nil
}

// runForm prompts for the fields of an open add or update form and submits
// it. A failed submission keeps the form open and the user may correct and
// resubmit or give up.
func (a *App) runForm(ctx context.Context, ctl *form.Controller, success, fallback string) error {
	for {
		if err := a.fillForm(ctx, ctl); err != nil {
			ctl.Cancel()
			return err
		}

		users, err := ctl.Submit(ctx)
		if err == nil {
			a.println(success)
			renderUsers(a.out, users)
			return nil
		}

		if ctl.State() == form.StateClosed {
			// the mutation went through, only the refresh failed
			a.println(success)
			return a.reportDirectoryErr(ctx, err, "Unable to load users")
		}

		a.println(describe(err, fallback))
		if errors.Is(err, client.ErrUnauthorized) {
			ctl.Cancel()
			return a.navigate(ctx, RouteLogin)
		}

		retry, cerr := Confirm(a.reader, "Edit and resubmit?", a.out)
		if cerr != nil || !retry {
			ctl.Cancel()
			return err
		}
	}
}

func (a *App) fillForm(ctx context.Context, ctl *form.Controller) error {
	cur := ctl.Record()

	if ctl.Mode() == models.ModeAdd {
		v, err := GetTextWithDefault(a.reader, "Username", cur.Username, a.out)
		if err != nil {
			return err
		}
		if err := ctl.SetUsername(v); err != nil {
			return err
		}
	} else {
		a.println("Username:", cur.Username)
	}

	v, err := GetTextWithDefault(a.reader, "Email", cur.Email, a.out)
	if err != nil {
		return err
	}
	if err := ctl.SetEmail(v); err != nil {
		return err
	}

	if ctl.Mode() == models.ModeAdd {
		if err := a.fillPasswords(ctl); err != nil {
			return err
		}
	}

	return a.fillImage(ctx, ctl, cur.ImageData)
}

func (a *App) fillPasswords(ctl *form.Controller) error {
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := ctl.SetPassword(string(password)); err != nil {
		return err
	}
	return ctl.SetConfirmPassword(string(confirm))
}

// fillImage asks for an image path until a file is accepted or the user
// skips. Skipping keeps the current image and clears an earlier rejection.
func (a *App) fillImage(ctx context.Context, ctl *form.Controller, current string) error {
	prompt := fmt.Sprintf("Profile image path (max 500KB, Enter to keep %s)", imagex.Describe(current))
	for {
		path, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if path == "" {
			return ctl.SelectImage(ctx, nil)
		}

		f, err := imagex.Open(path)
		if err != nil {
			a.println("Unable to open image:", err)
			continue
		}
		err = ctl.SelectImage(ctx, f)
		_ = f.Close()
		if err == nil {
			return nil
		}
		a.println(describe(err, "Invalid image"))
	}
}

// reportDirectoryErr prints err and sends the user to /login when the
// server rejected the session.
func (a *App) reportDirectoryErr(ctx context.Context, err error, fallback string) error {
	a.println(describe(err, fallback))
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.navigate(ctx, RouteLogin)
	}
	return err
}

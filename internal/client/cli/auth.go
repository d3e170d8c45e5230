package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Login(ctx context.Context) error {
	return a.navigate(ctx, RouteLogin)
}

func (a *App) Register(ctx context.Context) error {
	return a.navigate(ctx, RouteRegister)
}

func (a *App) Logout(ctx context.Context) error {
	return a.navigate(ctx, RouteLogout)
}

// Whoami prints the profile of the logged-in user along with the local
// session expiry and, when readable, the token's own expiry.
func (a *App) Whoami(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context) error {
		rec, err := a.auth.Profile(ctx)
		if err != nil {
			a.println(describe(err, "Unable to load profile"))
			if errors.Is(err, client.ErrUnauthorized) {
				return a.navigate(ctx, RouteLogin)
			}
			return err
		}

		sess, _ := session.FromContext(ctx)
		tokenExp, _ := session.TokenExpiry(sess.Token)
		return renderProfile(a.out, *rec, sess.ExpiresAt, tokenExp)
	})
}

// loginView prompts for credentials once. On success the home route is
// opened; on failure the user stays on /login.
func (a *App) loginView(ctx context.Context) error {
	if sess := a.sessions.Current(ctx); sess.Present {
		a.println(fmt.Sprintf("Already logged in as %s.", sess.Username))
		return a.navigate(ctx, RouteHome)
	}

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		a.println(describe(err, "Login failed"))
		return err
	}

	a.println(fmt.Sprintf("Logged in as %s.", sess.Username))
	return a.navigate(ctx, RouteHome)
}

// registerView collects a self-service sign-up. On success the user is sent
// to /login to authenticate with the new account.
func (a *App) registerView(ctx context.Context) error {
	var reg models.Registration
	var err error

	if reg.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if reg.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}

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

	reg.Password = string(password)
	reg.ConfirmPassword = string(confirm)

	path, err := getSimpleText(a.reader, "Profile image path (max 500KB, Enter to skip)", a.out)
	if err != nil {
		return err
	}
	reg.ImageData, reg.ImageErr = a.ingestPath(ctx, path)

	if err := a.auth.Register(ctx, reg); err != nil {
		a.println(describe(err, "Registration failed"))
		return err
	}

	a.println("Registration successful. Please log in.")
	return a.navigate(ctx, RouteLogin)
}

// ingestPath opens and encodes the file at path. An empty path yields no
// image and no error.
func (a *App) ingestPath(ctx context.Context, path string) (string, error) {
	f, err := imagex.Open(path)
	if err != nil || f == nil {
		return "", err
	}
	defer f.Close()
	return a.images.Ingest(ctx, f)
}

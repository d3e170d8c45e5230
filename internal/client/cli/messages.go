package cli

import (
	"errors"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
)

// describe turns an error into the message shown to the operator. Known
// kinds get a fixed message; anything else uses the server detail when there
// is one, otherwise fallback.
func describe(err error, fallback string) string {
	var ve *client.ValidationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, imagex.ErrImageTooLarge):
		return "Image size must be less than 500KB"
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, client.ErrForbiddenSelfDelete):
		return "You cannot delete yourself."
	case errors.Is(err, client.ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.Is(err, client.ErrConflict):
		if d := client.Detail(err); d != "" {
			return d
		}
		return "User already exists"
	case errors.Is(err, client.ErrUnavailable):
		if d := clientErrorDetail(err); d != "" {
			return d
		}
		return "Unable to connect"
	}

	if d := client.Detail(err); d != "" {
		return d
	}
	return fallback
}

// clientErrorDetail returns the server detail of a 4xx response. The server
// answered, so its message beats a connectivity hint.
func clientErrorDetail(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Detail
	}
	return ""
}

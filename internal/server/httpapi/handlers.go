package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/server/users"
	"github.com/labstack/echo/v4"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageData string `json:"image_base64"`
}

type usersResponse struct {
	Users []userDTO `json:"users_data"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ImageData string `json:"image_base64"`
}

type updateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageData string `json:"image_base64"`
}

func toDTO(u *users.User) userDTO {
	return userDTO{Username: u.Username, Email: u.Email, ImageData: u.ImageData}
}

// tokenHandler exchanges form-encoded credentials for a bearer token.
func (s *HTTPServer) tokenHandler(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := s.users.Login(ctx, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return detail(c, http.StatusUnauthorized, "Incorrect username or password")
		}
		s.logger.Error(ctx, "login failed", "error", err)
		return detail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: common.BearerTokenType})
}

func (s *HTTPServer) meHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, toDTO(caller(c)))
}

func (s *HTTPServer) listUsersHandler(c echo.Context) error {
	list, err := s.users.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := usersResponse{Users: make([]userDTO, 0, len(list))}
	for _, u := range list {
		resp.Users = append(resp.Users, toDTO(u))
	}
	return c.JSON(http.StatusOK, resp)
}

// registerHandler creates an account. It is open to anonymous callers for
// self-service sign-up.
func (s *HTTPServer) registerHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	_, err := s.users.Register(ctx, users.NewUser{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		ImageData: req.ImageData,
	})
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return detail(c, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, common.ErrorValidation):
		return detail(c, http.StatusBadRequest, "Username, email and password are required")
	case err != nil:
		return err
	}

	actor := "anonymous"
	if u := caller(c); u != nil {
		actor = u.Username
	}
	s.logger.Info(ctx, "user registered", "username", req.Username, "by", actor)

	return c.JSON(http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (s *HTTPServer) updateUserHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	err := s.users.Update(ctx, req.Username, req.Email, req.ImageData)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return detail(c, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrorValidation):
		return detail(c, http.StatusBadRequest, "Email is required")
	case err != nil:
		return err
	}

	s.logger.Info(ctx, "user updated", "username", req.Username, "by", caller(c).Username)
	return c.JSON(http.StatusOK, map[string]string{"message": "User updated successfully"})
}

func (s *HTTPServer) deleteUserHandler(c echo.Context) error {
	ctx := c.Request().Context()

	username := c.QueryParam("username")
	if username == "" {
		return detail(c, http.StatusBadRequest, "username is required")
	}

	err := s.users.Delete(ctx, caller(c).Username, username)
	switch {
	case errors.Is(err, common.ErrorSelfDelete):
		return detail(c, http.StatusForbidden, "You cannot delete yourself")
	case errors.Is(err, common.ErrorNotFound):
		return detail(c, http.StatusNotFound, "User not found")
	case err != nil:
		return err
	}

	s.logger.Info(ctx, "user deleted", "username", username, "by", caller(c).Username)
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorSelfDelete   = errors.New("self delete")
	ErrorValidation   = errors.New("validation error")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

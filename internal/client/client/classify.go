package client

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Op names a remote operation. Status codes mean different things per
// operation, so classification needs it.
type Op string

const (
	OpToken    Op = "token"
	OpProfile  Op = "profile"
	OpList     Op = "list"
	OpRegister Op = "register"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

// Classify maps a response to nil on 2xx or to an *APIError otherwise.
//
//	401 on token             -> ErrInvalidCredentials
//	401 elsewhere            -> ErrUnauthorized
//	403 on delete            -> ErrForbiddenSelfDelete
//	403 elsewhere            -> ErrUnauthorized
//	400 on register, any 409 -> ErrConflict
//	anything else            -> ErrUnavailable
func Classify(op Op, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized && op == OpToken:
		kind = ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case status == http.StatusForbidden && op == OpDelete:
		kind = ErrForbiddenSelfDelete
	case status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status == http.StatusConflict,
		status == http.StatusBadRequest && op == OpRegister:
		kind = ErrConflict
	default:
		kind = ErrUnavailable
	}

	return &APIError{Op: op, Kind: kind, Status: status, Detail: parseDetail(body)}
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// parseDetail pulls a human-readable message from {"detail": "..."} or
// {"message": "..."}. Structured details that are not a string are ignored.
func parseDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	var detail string
	if len(eb.Detail) > 0 && json.Unmarshal(eb.Detail, &detail) == nil && strings.TrimSpace(detail) != "" {
		return strings.TrimSpace(detail)
	}
	return strings.TrimSpace(eb.Message)
}

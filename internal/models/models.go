// Package models holds the wire types exchanged with the MarketAI Suite
// backend, the storage type enum and the sentinel errors shared by the
// client packages.
package models

import (
	"errors"
	"fmt"
)

// Credentials is the request body of the register and login endpoints.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	Email       string `json:"email"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

// UserInfo is the body of the current-user endpoint.
type UserInfo struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ErrorResponse is the JSON error body produced by the backend.
// The JWT layer reports problems under "msg" instead of "error".
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
	Msg   string `json:"msg,omitempty"`
}

// APIError wraps a non-successful backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}

	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

var (
	ErrUnauthorized       = errors.New("the backend rejected the stored token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("no token is stored")
	ErrMalformedResponse  = errors.New("the response body is not valid JSON")
	ErrUserExists         = errors.New("user already exists")
)

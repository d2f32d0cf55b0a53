package model

import "errors"

var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account disabled")

	// Authorization errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")

	// Entity errors
	ErrUserNotFound      = errors.New("user not found")
	ErrTokenNotFound     = errors.New("refresh token not found")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrAreaNotFound      = errors.New("restricted area not found")
	ErrAccessLogNotFound = errors.New("access log not found")
	ErrUsernameTaken     = errors.New("username already registered")
	ErrEmailTaken        = errors.New("email already registered")

	// Generic errors
	ErrValidation = errors.New("invalid input")
)

package service

import "errors"

// Sentinel errors surfaced by services. Handlers map them onto HTTP status
// codes; anything else is treated as an internal failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidAction      = errors.New("invalid action")
	ErrSelfRequest        = errors.New("cannot send a request to yourself")
	ErrInvalidCoordinates = errors.New("latitude and longitude must be valid numbers")
	ErrInvalidMedia       = errors.New("invalid media type")
	ErrMediaNotAllowed    = errors.New("media is not allowed in this group")
)

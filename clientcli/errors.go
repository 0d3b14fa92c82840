package clientcli

import "errors"

// Errors for saved profiles.
var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrNoProfiles       = errors.New("no profiles configured")
	ErrNoCurrentProfile = errors.New("no current profile")
)

// Errors for configuration validation.
var (
	ErrTokenRequired  = errors.New("token is required")
	ErrTokenExpired   = errors.New("token has expired")
	ErrOpaqueToken    = errors.New("token is not a JWT")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrNoIDs     = errors.New("no file ids provided")
	ErrEmptyPath = errors.New("path is required")
	ErrEmptyID   = errors.New("file id is required")
)

// Package common defines shared constants and sentinel errors used across
// the server, the admin console and the transports between them. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Account error taxonomy. Recoverable kinds travel inside
	// services.Result; ErrStorage is also returned as a hard error when the
	// credential file cannot be loaded.
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNotFound       = errors.New("not found")
	ErrInvariant      = errors.New("invariant violation")
	ErrStorage        = errors.New("storage error")

	// Session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Prediction errors.
	ErrUnknownCategory = errors.New("unknown category")
	ErrModelNotLoaded  = errors.New("model not loaded")
)

package idp

import "errors"

// Credential and verification errors (user-recoverable, no forced state change)
var (
	ErrInvalidCredentials  = errors.New("idp: invalid credentials")
	ErrInvalidTOTPCode     = errors.New("idp: invalid two-factor code")
	ErrAccountNotActivated = errors.New("idp: account not activated")
)

// Session errors (force the expiry path)
var (
	ErrUnauthorized = errors.New("idp: unauthorized")
)

// Transport and protocol errors
var (
	// ErrTransientNetwork covers connectivity failures and provider 5xx
	// responses. The caller may retry; no state changes.
	ErrTransientNetwork = errors.New("idp: transient network error")

	// ErrProtocolViolation is returned when a 200 response matches none of
	// the known provider shapes.
	ErrProtocolViolation = errors.New("idp: unrecognized provider response")
)

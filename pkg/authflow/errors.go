package authflow

import "errors"

// Guard-condition errors. These indicate an integration bug in the caller,
// not a user-facing flow outcome.
var (
	// ErrOperationInProgress is returned when an operation is started while a
	// previous one is still in flight for the same machine.
	ErrOperationInProgress = errors.New("authflow: operation already in progress")

	// ErrInvalidState is returned when an operation is invoked from a state
	// it is not legal in, e.g. verifying a two-factor code without a pending
	// challenge.
	ErrInvalidState = errors.New("authflow: operation not legal in current state")

	// ErrMissingAuthorizationCode is returned when the redirect callback
	// arrives without a code parameter. Fatal for that redirect, not
	// retryable.
	ErrMissingAuthorizationCode = errors.New("authflow: redirect is missing the authorization code")
)

// ErrAttemptAbandoned reports that a network completion arrived after the
// flow had already left the matching in-flight state. The result was
// discarded and no state changed.
var ErrAttemptAbandoned = errors.New("authflow: attempt abandoned before completion")

package tokenstore

import "errors"

var (
	// ErrEmptyAccessToken is returned when attempting to store a token pair
	// without an access token. An identity token alone never represents an
	// authenticated session.
	ErrEmptyAccessToken = errors.New("tokenstore: access token cannot be empty")

	// ErrStorePath is returned when the backing file location cannot be resolved.
	ErrStorePath = errors.New("tokenstore: cannot resolve store path")
)

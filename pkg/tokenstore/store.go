package tokenstore

// Token is the bearer token pair issued on successful authentication.
// AccessToken authorizes API calls; IdentityToken carries the decoded identity
// claims and may be absent for the 2FA completion path, which issues only an
// access token.
type Token struct {
	AccessToken   string `json:"access_token"`
	IdentityToken string `json:"id_token,omitempty"`
}

// Valid reports whether the pair represents a live session.
func (t Token) Valid() bool {
	return t.AccessToken != ""
}

// Store defines persistence for the token pair. Implementations must treat
// the pair as one unit: Set replaces both fields, Clear removes both fields.
// At most one token pair is live at a time.
type Store interface {
	// Set replaces the stored token pair.
	Set(token Token) error

	// Get returns the stored token pair and whether one is present.
	Get() (Token, bool)

	// Clear removes the token pair. Clearing an empty store is a no-op.
	Clear() error
}

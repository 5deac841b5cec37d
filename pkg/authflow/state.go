package authflow

import (
	"github.com/google/uuid"

	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// State names for the session lifecycle.
const (
	StateAnonymous            = "anonymous"
	StateCredentialsSubmitted = "credentials_submitted"
	StateTwoFactorPending     = "two_factor_pending"
	StateExchangingCode       = "exchanging_code"
	StateAuthenticated        = "authenticated"
	StateExpired              = "expired"
)

// TwoFactorChallenge models a pending TOTP verification tied to a provisional
// user identifier. A challenge is created by a login response, survives failed
// verify attempts unchanged, and is replaced only by a fresh login.
type TwoFactorChallenge struct {
	// UserID is the provisional identifier the verify call must reference.
	UserID string

	// ProvisioningURI is the otpauth:// payload for first-time enrollment,
	// empty when the user is already enrolled. Render it with pkg/qrcode.
	ProvisioningURI string

	// Enrolled reports whether the authenticator was already provisioned.
	Enrolled bool
}

// Anonymous is the resting state with no session and no token.
type Anonymous struct{}

func (Anonymous) Name() string { return StateAnonymous }

// CredentialsSubmitted is the in-flight state while a login call is
// outstanding. AttemptID ties the eventual completion to this attempt.
type CredentialsSubmitted struct {
	AttemptID uuid.UUID
}

func (CredentialsSubmitted) Name() string { return StateCredentialsSubmitted }

// TwoFactorPending holds the challenge the user must answer.
type TwoFactorPending struct {
	Challenge TwoFactorChallenge
}

func (TwoFactorPending) Name() string { return StateTwoFactorPending }

// ExchangingCode is the in-flight state while the authorization code is being
// exchanged for tokens.
type ExchangingCode struct {
	Code      string
	AttemptID uuid.UUID
}

func (ExchangingCode) Name() string { return StateExchangingCode }

// Authenticated is the gated session state. By the time it is observable the
// token pair has already been written to the store. Identity is an optional
// convenience and never participates in gating decisions.
type Authenticated struct {
	Token    tokenstore.Token
	Identity *idp.UserProfile
}

func (Authenticated) Name() string { return StateAuthenticated }

// Expired records a forced session end, reached only through the 401-driven
// expiry path. It collapses to Anonymous on the next observation.
type Expired struct {
	Reason string
}

func (Expired) Name() string { return StateExpired }

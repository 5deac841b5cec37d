package idp

import "encoding/json"

// LoginKind discriminates the provider's login response shapes.
type LoginKind string

const (
	// LoginEnrollment is returned the first time a user logs in: two-factor
	// auth is not yet enabled and the response carries an otpauth:// URI the
	// client must present as a QR code.
	LoginEnrollment LoginKind = "enrollment"

	// LoginTwoFactorRequired is returned on subsequent logins; the user must
	// submit a TOTP code for the returned user id.
	LoginTwoFactorRequired LoginKind = "2fa_required"

	// LoginDirect is the reserved direct-success shape carrying a token
	// without a two-factor challenge. Not observed from the current provider
	// but decoded if it ever appears.
	LoginDirect LoginKind = "direct"
)

// LoginResult is the decoded, explicitly tagged login outcome.
type LoginResult struct {
	Kind            LoginKind
	UserID          string
	ProvisioningURI string // otpauth:// URI, enrollment only
	Token           string // direct success only
}

// Credentials are ephemeral: they exist only for the duration of a login
// call and are never persisted.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Enrollment is the signup response payload.
type Enrollment struct {
	UserID          string `json:"userId"`
	ProvisioningURI string `json:"totpUri"`
}

// Address is the postal address block of a user profile.
type Address struct {
	Street          string `json:"street"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

// UserProfile is the userinfo response. It is a read-only view concern: its
// absence never blocks session gating, only the bearer token does.
type UserProfile struct {
	Email               string  `json:"email"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	PhoneNumber         string  `json:"phoneNumber"`
	BirthDate           string  `json:"birthDate"`
	Gender              string  `json:"gender"`
	Address             Address `json:"address"`
	ProfilePictureURL   string  `json:"profilePictureUrl"`
	ProfessionalSummary string  `json:"professionalSummary"`
}

// loginResponse is the raw provider shape before classification. The provider
// signals the outcome through which fields happen to be set.
type loginResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
	QRCode string `json:"qrCode"`
	Token  string `json:"token"`
}

// decodeLoginResult classifies the raw login body into a tagged result.
// Order matters: a token always wins, then enrollment, then the 2fa flag.
func decodeLoginResult(body []byte) (LoginResult, error) {
	var raw loginResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return LoginResult{}, ErrProtocolViolation
	}

	switch {
	case raw.Token != "":
		return LoginResult{Kind: LoginDirect, Token: raw.Token, UserID: raw.UserID}, nil
	case raw.QRCode != "" && raw.UserID != "":
		return LoginResult{Kind: LoginEnrollment, UserID: raw.UserID, ProvisioningURI: raw.QRCode}, nil
	case raw.Status == "2fa_required" && raw.UserID != "":
		return LoginResult{Kind: LoginTwoFactorRequired, UserID: raw.UserID}, nil
	default:
		return LoginResult{}, ErrProtocolViolation
	}
}

// apiError is the provider's error body. Some endpoints return a bare string
// instead, which the caller handles by falling back to the raw body.
type apiError struct {
	Message string `json:"message"`
}

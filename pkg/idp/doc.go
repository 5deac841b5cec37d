// Package idp implements the HTTP client for the CareerLaunch identity
// provider's credential endpoints: login, two-factor verification, signup,
// and userinfo.
//
// The provider distinguishes its login outcomes by the ad hoc presence or
// absence of response fields rather than an explicit discriminator. This
// package decodes that response into an explicit tagged LoginResult at the
// boundary; a 200 response matching none of the known shapes fails with
// ErrProtocolViolation instead of proceeding with undefined fields.
//
// Provider and transport failures map onto a fixed error taxonomy
// (ErrInvalidCredentials, ErrInvalidTOTPCode, ErrUnauthorized,
// ErrTransientNetwork) that the authentication flow depends on to choose
// between "stay and retry" and "force re-authentication". The provider's own
// message text is preserved in the wrapped error for display.
package idp

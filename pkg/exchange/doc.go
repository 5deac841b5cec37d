// Package exchange performs the OAuth2 authorization-code leg against the
// CareerLaunch provider: building the /oauth2/authorize URL the browser
// navigates to, and exchanging the code the provider redirects back with for
// the bearer token pair.
//
// Authorization codes are single-use by protocol contract. A 400 or 401 from
// the token endpoint means the code is invalid, expired, or replayed and is
// terminal for that code (ErrInvalidGrant): the only recovery is restarting
// the redirect from AuthCodeURL, never retrying the same code. Transport
// failures are reported as ErrTransientExchange with the same restart-only
// retry contract.
//
// The client authenticates to the token endpoint with HTTP Basic
// client_id:client_secret. Shipping a client secret inside a public client is
// a known weakness of the observed flow and is carried as-is rather than
// silently replaced with a code-verifier mechanism.
package exchange

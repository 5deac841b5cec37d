// Package profile serves the authenticated user's profile to the
// presentation layer.
//
// The profile is a read-only view concern: it is fetched from the userinfo
// endpoint after authentication, cached with a TTL, and refreshed whenever a
// dashboard mounts. Its absence never blocks session gating — only the bearer
// token does. A 401 raised by the fetch flows through the session gate
// transport, so expiry handling needs nothing from this package.
package profile

// Package tokenstore provides persistence for the bearer token pair obtained
// from the CareerLaunch identity provider.
//
// The token pair (access token plus optional identity token) is treated as a
// single unit: it is written, read, and cleared together, so a partial clear
// that removes one half and leaves the other behind cannot occur. Presence of
// a non-empty access token is the sole authority for "authenticated" — no
// other component may decide session validity from any other signal.
//
// Two implementations are provided:
//
//   - FileStore persists the pair as one JSON document under the user config
//     directory. It survives process restarts but is local to the profile,
//     matching the browser localStorage semantics of the original client.
//   - MemoryStore keeps the pair in memory and is intended for tests and
//     short-lived tooling.
//
// All operations are synchronous and idempotent. The store is written only by
// the authentication completion paths and the 401-driven expiry path; every
// session gate evaluation reads it.
package tokenstore

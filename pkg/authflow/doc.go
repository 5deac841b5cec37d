// Package authflow owns the client-side authentication lifecycle for the
// CareerLaunch identity provider: the session state machine, its transition
// rules, and the operations the presentation layer drives it with.
//
// The session is always in exactly one state:
//
//	Anonymous → CredentialsSubmitted → TwoFactorPending → Authenticated
//	Anonymous → ExchangingCode → Authenticated
//	Authenticated → Expired → Anonymous
//
// CredentialsSubmitted and ExchangingCode are in-flight states covering the
// window between issuing a network call and its completion; a second
// operation started inside that window is rejected with
// ErrOperationInProgress instead of racing. Completions carry the attempt id
// they were issued under, so a response arriving after the flow moved on
// (logout, restart) is discarded without touching state — the late-arriving
// promise of the original client simply evaporates.
//
// Token writes are the terminal step of a successful transition, executed as
// a transition action before the new state becomes observable, so no observer
// can ever see Authenticated without the token pair already persisted, and an
// abandoned flow can never leave a partial token behind.
//
// Logout is the one transition legal from every state. The 401-driven expiry
// path (Expire) clears the store and parks the machine in Expired; the next
// state observation collapses Expired back to Anonymous automatically.
package authflow

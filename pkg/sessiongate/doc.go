// Package sessiongate guards protected views: every protected route asks the
// gate whether it may render, and the gate answers from token store state
// alone.
//
// Evaluate is a cheap synchronous predicate, not a polling side effect.
// Callers that evaluate on every render are wasteful but not incorrect, since
// store reads are idempotent; memoization belongs to the caller.
//
// A denial remembers the location that was refused so a fresh login can
// return the user to where they were. The companion Transport implements the
// expiry path: it injects the bearer token into outgoing requests and, on any
// 401 response, clears the store and notifies the flow, so the very next
// Evaluate answers Denied.
package sessiongate

// Package statemachine provides a small guarded finite-state machine for
// modeling authentication and session lifecycles.
//
// States are modeled as values satisfying the State interface so each state
// can carry the data that defines it (a pending challenge, an authorization
// code, a token). The machine validates transitions against a declared table
// keyed by state name and event, which keeps illegal transitions a table
// lookup failure rather than scattered conditionals.
//
// Transitions may declare a Guard, evaluated before the state changes, and an
// Action, executed after the guard passes but before the new state becomes
// observable. The action-before-commit ordering is the point: a side effect
// such as persisting a token either completes before any observer can read
// the new state, or fails and aborts the transition entirely.
//
// Typed errors distinguish "no such transition" from "guard rejected",
// letting callers map the two onto different failure classes.
package statemachine

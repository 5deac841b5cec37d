package authflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/stainley/CareerLaunch/pkg/exchange"
	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/statemachine"
	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// Events driving the session state machine.
const (
	eventSubmit       statemachine.Event = "submit"
	eventChallenge    statemachine.Event = "challenge"
	eventAuthenticate statemachine.Event = "authenticate"
	eventFail         statemachine.Event = "fail"
	eventExchange     statemachine.Event = "exchange"
	eventLogout       statemachine.Event = "logout"
	eventExpire       statemachine.Event = "expire"
	eventObserve      statemachine.Event = "observe"
)

// totpCodeRe matches exactly six ASCII digits. Anything else is rejected
// locally without a network round-trip.
var totpCodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// Flow is the authentication lifecycle manager. It owns the session state
// machine and is the only writer of the token store besides the 401-driven
// expiry path. Safe for concurrent use; state transitions are serialized and
// overlapping in-flight operations are rejected rather than raced.
type Flow struct {
	mu        sync.Mutex // serializes transition decisions against completions
	machine   *statemachine.Machine
	client    idp.Client
	exchanger exchange.Exchanger
	store     tokenstore.Store
	logger    *slog.Logger
}

// Option configures a Flow during construction.
type Option func(*Flow)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = l
	}
}

// New creates a Flow. If the store already holds a valid token pair (a
// previous run authenticated and the process restarted), the machine starts
// in Authenticated; otherwise it starts in Anonymous.
func New(client idp.Client, exchanger exchange.Exchanger, store tokenstore.Store, opts ...Option) *Flow {
	f := &Flow{
		client:    client,
		exchanger: exchanger,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}

	var initial statemachine.State = Anonymous{}
	if token, ok := store.Get(); ok {
		initial = Authenticated{Token: token}
	}
	f.machine = statemachine.MustNew(initial, f.transitions())
	return f
}

// transitions declares the full session lifecycle. Token persistence is a
// transition action into Authenticated, so the write completes before the
// state becomes observable; the guard refuses Authenticated without a valid
// token pair. Logout is declared from every state.
func (f *Flow) transitions() []statemachine.Transition {
	tokenGuard := func(ctx context.Context, from, next statemachine.State, event statemachine.Event) bool {
		auth, ok := next.(Authenticated)
		return ok && auth.Token.Valid()
	}
	writeToken := func(ctx context.Context, from, next statemachine.State, event statemachine.Event) error {
		return f.store.Set(next.(Authenticated).Token)
	}
	clearToken := func(ctx context.Context, from, next statemachine.State, event statemachine.Event) error {
		return f.store.Clear()
	}

	ts := []statemachine.Transition{
		{From: StateAnonymous, Event: eventSubmit, To: StateCredentialsSubmitted},
		// Restarting login from a pending challenge creates a fresh attempt.
		{From: StateTwoFactorPending, Event: eventSubmit, To: StateCredentialsSubmitted},

		{From: StateCredentialsSubmitted, Event: eventChallenge, To: StateTwoFactorPending},
		{From: StateCredentialsSubmitted, Event: eventAuthenticate, To: StateAuthenticated, Guard: tokenGuard, Action: writeToken},
		{From: StateCredentialsSubmitted, Event: eventFail, To: StateAnonymous},

		{From: StateTwoFactorPending, Event: eventAuthenticate, To: StateAuthenticated, Guard: tokenGuard, Action: writeToken},

		{From: StateAnonymous, Event: eventExchange, To: StateExchangingCode},
		{From: StateExchangingCode, Event: eventAuthenticate, To: StateAuthenticated, Guard: tokenGuard, Action: writeToken},
		{From: StateExchangingCode, Event: eventFail, To: StateAnonymous},

		{From: StateAuthenticated, Event: eventExpire, To: StateExpired, Action: clearToken},
		{From: StateExpired, Event: eventObserve, To: StateAnonymous},
	}

	for _, state := range []string{
		StateAnonymous, StateCredentialsSubmitted, StateTwoFactorPending,
		StateExchangingCode, StateAuthenticated, StateExpired,
	} {
		ts = append(ts, statemachine.Transition{
			From: state, Event: eventLogout, To: StateAnonymous, Action: clearToken,
		})
	}
	return ts
}

// State returns the active session state. Observing Expired collapses it to
// Anonymous immediately, so Expired is seen at most once per expiry.
func (f *Flow) State() statemachine.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Flow) stateLocked() statemachine.State {
	current := f.machine.Current()
	if expired, ok := current.(Expired); ok {
		_ = f.machine.Fire(context.Background(), eventObserve, Anonymous{})
		return expired
	}
	return current
}

// SubmitCredentials performs the login call. Outcomes: a direct token moves
// to Authenticated, a challenge moves to TwoFactorPending, any failure
// returns to Anonymous with the provider's message preserved in the error.
// A second submit while one is outstanding fails with ErrOperationInProgress.
// Credentials are not retained beyond this call.
func (f *Flow) SubmitCredentials(ctx context.Context, username, password string) (statemachine.State, error) {
	attempt := uuid.New()
	if at, err := f.fire(ctx, eventSubmit, CredentialsSubmitted{AttemptID: attempt}); err != nil {
		return at, classifyFireError(at, err)
	}

	result, err := f.client.Login(ctx, idp.Credentials{Username: username, Password: password})
	if err != nil {
		return f.complete(ctx, attempt, eventFail, Anonymous{}, err)
	}

	switch result.Kind {
	case idp.LoginDirect:
		next := Authenticated{Token: tokenstore.Token{AccessToken: result.Token}}
		return f.complete(ctx, attempt, eventAuthenticate, next, nil)
	case idp.LoginEnrollment:
		next := TwoFactorPending{Challenge: TwoFactorChallenge{
			UserID:          result.UserID,
			ProvisioningURI: result.ProvisioningURI,
		}}
		return f.complete(ctx, attempt, eventChallenge, next, nil)
	case idp.LoginTwoFactorRequired:
		next := TwoFactorPending{Challenge: TwoFactorChallenge{
			UserID:   result.UserID,
			Enrolled: true,
		}}
		return f.complete(ctx, attempt, eventChallenge, next, nil)
	default:
		return f.complete(ctx, attempt, eventFail, Anonymous{}, idp.ErrProtocolViolation)
	}
}

// VerifyTwoFactor submits the entered code for the pending challenge. The
// code must be exactly six ASCII digits; malformed input is rejected locally
// without a network call. A provider rejection preserves the challenge
// unchanged so the user can retype. There is no attempt limit.
func (f *Flow) VerifyTwoFactor(ctx context.Context, code string) (statemachine.State, error) {
	f.mu.Lock()
	pending, ok := f.stateLocked().(TwoFactorPending)
	f.mu.Unlock()
	if !ok {
		return f.State(), ErrInvalidState
	}

	if !totpCodeRe.MatchString(code) {
		return TwoFactorPending{Challenge: pending.Challenge},
			fmt.Errorf("%w: code must be exactly 6 digits", idp.ErrInvalidTOTPCode)
	}

	token, err := f.client.VerifyTwoFactor(ctx, pending.Challenge.UserID, code)
	if err != nil {
		// Rejection and transient failures alike leave the challenge in
		// place; the user stays where they are and may retry.
		return f.State(), err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.machine.Current().(TwoFactorPending)
	if !ok || current.Challenge.UserID != pending.Challenge.UserID {
		f.logger.DebugContext(ctx, "late two-factor completion discarded")
		return f.stateLocked(), ErrAttemptAbandoned
	}

	next := Authenticated{Token: tokenstore.Token{AccessToken: token}}
	if err := f.machine.Fire(ctx, eventAuthenticate, next); err != nil {
		return f.stateLocked(), err
	}
	return next, nil
}

// BeginOAuthRedirect returns the provider authorize URL the browser must
// navigate to. Pure: no state changes until the redirect comes back.
func (f *Flow) BeginOAuthRedirect() string {
	return f.exchanger.AuthCodeURL()
}

// CompleteOAuthRedirect consumes the provider redirect. A missing code is a
// fatal routing error surfaced without any network call; the current state,
// whatever it is, stays untouched, so a stray codeless callback cannot tear
// down an established session. A present code is exchanged exactly once,
// landing in Authenticated on success and back in Anonymous on failure.
func (f *Flow) CompleteOAuthRedirect(ctx context.Context, query url.Values) (statemachine.State, error) {
	code := query.Get("code")
	if code == "" {
		return f.State(), ErrMissingAuthorizationCode
	}

	attempt := uuid.New()
	if at, err := f.fire(ctx, eventExchange, ExchangingCode{Code: code, AttemptID: attempt}); err != nil {
		return at, classifyFireError(at, err)
	}

	token, err := f.exchanger.Exchange(ctx, code)
	if err != nil {
		return f.complete(ctx, attempt, eventFail, Anonymous{}, err)
	}
	return f.complete(ctx, attempt, eventAuthenticate, Authenticated{Token: token}, nil)
}

// Logout clears the token store and returns to Anonymous. Legal from every
// state; this is the emergency exit.
func (f *Flow) Logout(ctx context.Context) error {
	_, err := f.fire(ctx, eventLogout, Anonymous{})
	return err
}

// Expire is the 401-driven expiry path: the store is cleared unconditionally
// and an authenticated session moves to Expired. Safe to call from any state;
// outside Authenticated only the store clear applies.
func (f *Flow) Expire(ctx context.Context, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.machine.Fire(ctx, eventExpire, Expired{Reason: reason}); err != nil {
		// Not authenticated: nothing to transition, but the store must still
		// be empty after an observed 401.
		_ = f.store.Clear()
	}
	f.logger.InfoContext(ctx, "session expired", slog.String("reason", reason))
}

// fire serializes a transition attempt against in-flight completions. The
// returned state is the one the machine held when the transition resolved,
// captured under the lock so failures can be classified against the state
// that actually rejected them.
func (f *Flow) fire(ctx context.Context, event statemachine.Event, next statemachine.State) (statemachine.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A stale Expired state never blocks a new operation.
	if _, ok := f.machine.Current().(Expired); ok {
		_ = f.machine.Fire(ctx, eventObserve, Anonymous{})
	}
	err := f.machine.Fire(ctx, event, next)
	return f.machine.Current(), err
}

// complete applies the result of a finished network call, but only if the
// machine is still in the in-flight state carrying the same attempt id.
// Anything else means the flow was abandoned mid-call and the result is
// discarded without touching state.
func (f *Flow) complete(ctx context.Context, attempt uuid.UUID, event statemachine.Event, next statemachine.State, opErr error) (statemachine.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.attemptActiveLocked(attempt) {
		f.logger.DebugContext(ctx, "late completion discarded",
			slog.String("attempt", attempt.String()))
		return f.stateLocked(), ErrAttemptAbandoned
	}

	if err := f.machine.Fire(ctx, event, next); err != nil {
		// A guard or action refusing the completion must not strand the
		// machine in an in-flight state.
		if f.attemptActiveLocked(attempt) {
			_ = f.machine.Fire(ctx, eventFail, Anonymous{})
		}
		return f.stateLocked(), err
	}
	if opErr != nil {
		return f.stateLocked(), opErr
	}
	return next, nil
}

func (f *Flow) attemptActiveLocked(attempt uuid.UUID) bool {
	switch s := f.machine.Current().(type) {
	case CredentialsSubmitted:
		return s.AttemptID == attempt
	case ExchangingCode:
		return s.AttemptID == attempt
	default:
		return false
	}
}

// classifyFireError maps machine-level rejections onto the caller-facing
// guard errors: an undefined transition out of an in-flight state means an
// operation is already outstanding, anything else is an illegal call. The
// state must be the one captured when the transition failed, not a fresh
// read, or a concurrent completion could change the classification.
func classifyFireError(at statemachine.State, err error) error {
	if statemachine.IsUndefinedTransition(err) {
		switch at.(type) {
		case CredentialsSubmitted, ExchangingCode:
			return ErrOperationInProgress
		default:
			return ErrInvalidState
		}
	}
	return err
}

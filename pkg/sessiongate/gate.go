package sessiongate

import (
	"sync"

	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// Verdict is the gate's answer for a protected view.
type Verdict int

const (
	// Unknown is the transient pre-evaluation verdict. Store reads are
	// synchronous, so Unknown collapses on the first Evaluate and is never
	// returned afterwards; it exists so an unevaluated Decision zero value
	// cannot be mistaken for a grant.
	Unknown Verdict = iota

	// Allowed grants rendering of the protected view.
	Allowed

	// Denied refuses rendering; RedirectTarget carries the anonymous entry
	// point to navigate to.
	Denied
)

// String returns the verdict name for logging.
func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is the result of a gate evaluation.
type Decision struct {
	Verdict        Verdict
	RedirectTarget string // set only when Denied
}

// Gate decides whether protected views may render. Token presence in the
// store is the sole input; identity or profile availability never factors in.
type Gate struct {
	store      tokenstore.Store
	entryPoint string

	mu       sync.Mutex
	returnTo string
}

// Option configures a Gate during construction.
type Option func(*Gate)

// WithEntryPoint sets the anonymous entry point denied evaluations redirect
// to. Defaults to "/login".
func WithEntryPoint(path string) Option {
	return func(g *Gate) {
		if path != "" {
			g.entryPoint = path
		}
	}
}

// New creates a gate over the given token store.
func New(store tokenstore.Store, opts ...Option) *Gate {
	g := &Gate{store: store, entryPoint: "/login"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate answers whether the protected view at location may render.
// A denial records location as the post-login return target.
func (g *Gate) Evaluate(location string) Decision {
	if token, ok := g.store.Get(); ok && token.Valid() {
		return Decision{Verdict: Allowed}
	}

	g.mu.Lock()
	if location != "" && location != g.entryPoint {
		g.returnTo = location
	}
	g.mu.Unlock()

	return Decision{Verdict: Denied, RedirectTarget: g.entryPoint}
}

// ConsumeReturnTo returns the location last denied and clears it, so a fresh
// login can land the user back where they were. The second value reports
// whether a return target was pending.
func (g *Gate) ConsumeReturnTo() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.returnTo == "" {
		return "", false
	}
	target := g.returnTo
	g.returnTo = ""
	return target, true
}

package sessiongate

import (
	"fmt"
	"net/http"

	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// ExpireFunc is invoked when a 401 response is observed; wire it to the auth
// flow's expiry path.
type ExpireFunc func(reason string)

// Transport is an http.RoundTripper that attaches the stored bearer token to
// outgoing requests and enforces the expiry contract: any 401 clears the
// store, notifies the flow, and records the request's location as the
// post-login return target. Wrap it around the HTTP client used for every
// authenticated call so no 401 can slip past the gate.
type Transport struct {
	// Base is the underlying round tripper; http.DefaultTransport when nil.
	Base http.RoundTripper

	// Store supplies the bearer token and is cleared on 401.
	Store tokenstore.Store

	// Gate, when set, records the denied location on 401.
	Gate *Gate

	// OnExpire, when set, is called once per observed 401.
	OnExpire ExpireFunc
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per the RoundTripper contract the original request is not mutated.
	out := req.Clone(req.Context())
	if token, ok := t.Store.Get(); ok && token.Valid() {
		out.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = t.Store.Clear()
		if t.Gate != nil {
			t.Gate.mu.Lock()
			t.Gate.returnTo = req.URL.Path
			t.Gate.mu.Unlock()
		}
		if t.OnExpire != nil {
			t.OnExpire(fmt.Sprintf("401 from %s", req.URL.Path))
		}
	}
	return resp, nil
}

// Client returns an *http.Client using this transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

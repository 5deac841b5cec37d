package main

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stainley/CareerLaunch/pkg/authflow"
	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/logger"
	"github.com/stainley/CareerLaunch/pkg/profile"
	"github.com/stainley/CareerLaunch/pkg/sessiongate"
	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// syncBuffer makes command output readable while the command still runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T) (*app, *MockIdentityProvider, *MockExchanger) {
	t.Helper()

	client := new(MockIdentityProvider)
	exchanger := new(MockExchanger)
	store := tokenstore.NewMemoryStore()

	a := &app{
		cfg:       appConfig{RedirectURL: "http://127.0.0.1:0/callback"},
		log:       logger.Discard(),
		store:     store,
		client:    client,
		exchanger: exchanger,
		gate:      sessiongate.New(store),
		output:    "text",
	}
	a.flow = authflow.New(client, exchanger, store)
	a.profile = profile.NewService(client)
	return a, client, exchanger
}

var callbackAddrRe = regexp.MustCompile(`callback on (http://\S+)`)

func TestLoginCmd_BrowserRoute(t *testing.T) {
	t.Parallel()

	a, client, exchanger := newTestApp(t)
	exchanger.On("AuthCodeURL").
		Return("http://provider.example/oauth2/authorize?response_type=code")
	exchanger.On("Exchange", mock.Anything, "abc").
		Return(tokenstore.Token{AccessToken: "AT1", IdentityToken: "IDT1"}, nil)
	client.On("UserInfo", mock.Anything).
		Return(idp.UserProfile{FirstName: "Bob", LastName: "Builder", Email: "bob@example.com"}, nil)

	cmd := newLoginCmd(a)
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--browser"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(context.Background())
	}()

	// The command prints the local callback address once it is listening.
	var target string
	require.Eventually(t, func() bool {
		m := callbackAddrRe.FindStringSubmatch(out.String())
		if m == nil {
			return false
		}
		target = m[1]
		return true
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(target + "?code=abc&state=xyz")
	require.NoError(t, err)
	resp.Body.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("login did not finish after the callback")
	}

	token, ok := a.store.Get()
	require.True(t, ok, "browser route must end with a stored token")
	assert.Equal(t, "AT1", token.AccessToken)
	assert.Equal(t, "IDT1", token.IdentityToken)

	output := out.String()
	assert.Contains(t, output, "http://provider.example/oauth2/authorize")
	assert.Contains(t, output, "Signed in as Bob Builder <bob@example.com>")
	assert.IsType(t, authflow.Authenticated{}, a.flow.State())
}

func TestLoginCmd_BrowserRouteSkipsCredentialPrompt(t *testing.T) {
	t.Parallel()

	a, client, exchanger := newTestApp(t)
	exchanger.On("AuthCodeURL").Return("http://provider.example/oauth2/authorize")
	exchanger.On("Exchange", mock.Anything, "xyz").
		Return(tokenstore.Token{AccessToken: "AT2"}, nil)
	client.On("UserInfo", mock.Anything).
		Return(idp.UserProfile{}, idp.ErrTransientNetwork)

	cmd := newLoginCmd(a)
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	// No input available: a credentials prompt would fail the command.
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--browser"})

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(context.Background())
	}()

	var target string
	require.Eventually(t, func() bool {
		m := callbackAddrRe.FindStringSubmatch(out.String())
		if m == nil {
			return false
		}
		target = m[1]
		return true
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(target + "?code=xyz")
	require.NoError(t, err)
	resp.Body.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("login did not finish after the callback")
	}

	output := out.String()
	assert.NotContains(t, output, "Username:")
	assert.Contains(t, output, "Signed in.")
	client.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

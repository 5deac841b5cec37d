package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// callbackListener serves the registered redirect URI locally and captures
// the query string of the first request the provider sends back. The port
// is bound at construction so a busy port fails before the browser is
// pointed anywhere.
type callbackListener struct {
	ln   net.Listener
	path string
	log  *slog.Logger
}

func newCallbackListener(redirectURL string, log *slog.Logger) (*callbackListener, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL %q: %w", redirectURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redirect URL %q has no host", redirectURL)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", u.Host, err)
	}
	return &callbackListener{ln: ln, path: path, log: log}, nil
}

// Addr reports the bound address.
func (l *callbackListener) Addr() string {
	return l.ln.Addr().String()
}

// Wait serves until the provider redirects the browser back, then returns
// the callback query values. It handles exactly one callback; requests to
// other paths get 404.
func (l *callbackListener) Wait(ctx context.Context) (url.Values, error) {
	queries := make(chan url.Values, 1)

	r := chi.NewRouter()
	r.Get(l.path, func(w http.ResponseWriter, req *http.Request) {
		select {
		case queries <- req.URL.Query():
		default:
			// A second redirect races the shutdown; ignore it.
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>Signed in. You can close this tab and return to the terminal.</p></body></html>"))
	})

	srv := &http.Server{Handler: r}
	served := make(chan error, 1)
	go func() {
		if err := srv.Serve(l.ln); !errors.Is(err, http.ErrServerClosed) {
			served <- err
		}
	}()
	defer srv.Close()

	l.log.Debug("waiting for authorization callback",
		slog.String("addr", l.Addr()), slog.String("path", l.path))

	select {
	case q := <-queries:
		return q, nil
	case err := <-served:
		return nil, fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

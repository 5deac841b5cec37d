package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// Config holds the OAuth2 client registration for the authorization-code leg.
// RedirectURL must byte-exactly match the URI registered with the provider;
// a mismatch is a provider-side hard failure that cannot be detected here.
type Config struct {
	ClientID     string   `env:"OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"OAUTH_CLIENT_SECRET,required"`
	AuthURL      string   `env:"OAUTH_AUTH_URL,required"`
	TokenURL     string   `env:"OAUTH_TOKEN_URL,required"`
	RedirectURL  string   `env:"OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,read,write"`
}

// Exchanger swaps a one-time authorization code for the bearer token pair.
type Exchanger interface {
	// AuthCodeURL returns the provider authorize URL for response_type=code.
	AuthCodeURL() string

	// Exchange consumes the authorization code exactly once.
	Exchange(ctx context.Context, code string) (tokenstore.Token, error)
}

// CodeExchanger implements Exchanger over golang.org/x/oauth2.
type CodeExchanger struct {
	oauth2Config *oauth2.Config
	logger       *slog.Logger
}

var _ Exchanger = (*CodeExchanger)(nil)

// Option configures a CodeExchanger during construction.
type Option func(*CodeExchanger)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *CodeExchanger) {
		e.logger = l
	}
}

// New creates a code exchanger for the given client registration.
func New(cfg Config, opts ...Option) *CodeExchanger {
	e := &CodeExchanger{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
				// Basic auth header carries client_id:client_secret,
				// matching the provider's token endpoint contract.
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AuthCodeURL returns the browser-navigated authorize URL. The provider owns
// the login UI beyond this point.
func (e *CodeExchanger) AuthCodeURL() string {
	return e.oauth2Config.AuthCodeURL("")
}

// Exchange performs the single grant_type=authorization_code POST and returns
// the token pair from the 200 body. The id_token travels in the response's
// extra fields.
func (e *CodeExchanger) Exchange(ctx context.Context, code string) (tokenstore.Token, error) {
	if code == "" {
		return tokenstore.Token{}, ErrMissingCode
	}

	tok, err := e.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			status := retrieveErr.Response.StatusCode
			if status == http.StatusBadRequest || status == http.StatusUnauthorized {
				e.logger.WarnContext(ctx, "authorization code rejected", slog.Int("status", status))
				return tokenstore.Token{}, fmt.Errorf("%w: provider returned %d", ErrInvalidGrant, status)
			}
			return tokenstore.Token{}, fmt.Errorf("%w: provider returned %d", ErrTransientExchange, status)
		}
		return tokenstore.Token{}, fmt.Errorf("%w: %w", ErrTransientExchange, err)
	}

	token := tokenstore.Token{AccessToken: tok.AccessToken}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		token.IdentityToken = idToken
	}
	return token, nil
}

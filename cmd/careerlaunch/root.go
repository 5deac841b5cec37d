package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stainley/CareerLaunch/pkg/authflow"
	"github.com/stainley/CareerLaunch/pkg/config"
	"github.com/stainley/CareerLaunch/pkg/exchange"
	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/logger"
	"github.com/stainley/CareerLaunch/pkg/profile"
	"github.com/stainley/CareerLaunch/pkg/sessiongate"
	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// appConfig is the CLI configuration. A YAML file seeds values,
// environment variables override, and applyDefaults fills the rest.
type appConfig struct {
	BaseURL      string        `env:"IDP_BASE_URL" yaml:"base_url"`
	Timeout      time.Duration `env:"IDP_TIMEOUT" yaml:"timeout"`
	ClientID     string        `env:"OAUTH_CLIENT_ID" yaml:"client_id"`
	ClientSecret string        `env:"OAUTH_CLIENT_SECRET" yaml:"client_secret"`
	AuthURL      string        `env:"OAUTH_AUTH_URL" yaml:"auth_url"`
	TokenURL     string        `env:"OAUTH_TOKEN_URL" yaml:"token_url"`
	RedirectURL  string        `env:"OAUTH_REDIRECT_URL" yaml:"redirect_url"`
	Scopes       []string      `env:"OAUTH_SCOPES" envSeparator:"," yaml:"scopes"`
	TokenPath    string        `env:"CAREERLAUNCH_TOKEN_PATH" yaml:"token_path"`
	LogFormat    string        `env:"CAREERLAUNCH_LOG_FORMAT" yaml:"log_format"`
}

func (c *appConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:9000"
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
	if c.ClientID == "" {
		c.ClientID = "job-tracker-client"
	}
	if c.ClientSecret == "" {
		c.ClientSecret = "secret"
	}
	if c.AuthURL == "" {
		c.AuthURL = c.BaseURL + "/oauth2/authorize"
	}
	if c.TokenURL == "" {
		c.TokenURL = c.BaseURL + "/oauth2/token"
	}
	if c.RedirectURL == "" {
		// Must byte-exactly match the provider's registered redirect URI.
		c.RedirectURL = "http://localhost:5173/callback"
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"openid", "read", "write"}
	}
	if c.LogFormat == "" {
		c.LogFormat = string(logger.FormatText)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "careerlaunch", "config.yaml")
}

// app holds the wired client stack shared by all subcommands.
type app struct {
	cfg       appConfig
	log       *slog.Logger
	store     tokenstore.Store
	client    idp.Client
	exchanger exchange.Exchanger
	flow      *authflow.Flow
	gate      *sessiongate.Gate
	profile   *profile.Service
	output    string
}

func newApp(cfg appConfig, log *slog.Logger, output string) (*app, error) {
	store, err := tokenstore.NewFileStore(cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: store, output: output}
	a.gate = sessiongate.New(store)

	// The transport funnels every authenticated call through the 401
	// expiry path. OnExpire is late-bound because the flow needs the
	// client, which needs the transport.
	transport := &sessiongate.Transport{
		Store: store,
		Gate:  a.gate,
		OnExpire: func(reason string) {
			if a.flow != nil {
				a.flow.Expire(context.Background(), reason)
			}
		},
	}

	a.client = idp.New(
		idp.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout},
		idp.WithLogger(log),
		idp.WithHTTPClient(&http.Client{Transport: transport, Timeout: cfg.Timeout}),
	)
	a.exchanger = exchange.New(exchange.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
	}, exchange.WithLogger(log))
	a.flow = authflow.New(a.client, a.exchanger, store, authflow.WithLogger(log))
	a.profile = profile.NewService(a.client, profile.WithLogger(log))

	return a, nil
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbosity  int
		output     string
		tokenPath  string
		a          app
	)

	root := &cobra.Command{
		Use:           "careerlaunch",
		Short:         "Career Launch authentication client",
		Long:          "Command line client for the Career Launch identity provider:\nOAuth2 authorization-code login with optional TOTP two-factor verification.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = defaultConfigPath()
			}

			var cfg appConfig
			if err := config.LoadFile(path, &cfg); err != nil {
				return err
			}
			cfg.applyDefaults()
			if tokenPath != "" {
				cfg.TokenPath = tokenPath
			}

			format := logger.Format(cfg.LogFormat)
			log := logger.New(
				logger.WithFormat(format),
				logger.WithVerbosity(verbosity),
				logger.WithAttr(slog.String("app", "careerlaunch")),
			)

			built, err := newApp(cfg, log, output)
			if err != nil {
				return err
			}
			a = *built
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	root.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text|json")
	root.PersistentFlags().StringVar(&tokenPath, "token-path", "", "override token storage path")

	root.AddCommand(
		newLoginCmd(&a),
		newLogoutCmd(&a),
		newWhoamiCmd(&a),
		newSignupCmd(&a),
		newStatusCmd(&a),
	)
	return root
}

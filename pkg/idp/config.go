package idp

import "time"

// Config holds the identity provider client configuration.
type Config struct {
	BaseURL string        `env:"IDP_BASE_URL,required"`
	Timeout time.Duration `env:"IDP_TIMEOUT" envDefault:"15s"`
}

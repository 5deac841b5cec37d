// Package config loads application configuration from environment
// variables and optional YAML files.
//
// Environment parsing is delegated to github.com/caarlos0/env/v11 using
// struct field tags, with .env file support from github.com/joho/godotenv.
// Each configuration type is parsed at most once per process and served
// from an in-memory cache on subsequent calls.
//
// Typical usage:
//
//	type ClientConfig struct {
//	    BaseURL string        `env:"IDP_BASE_URL,required"`
//	    Timeout time.Duration `env:"IDP_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg ClientConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("config: %v", err)
//	}
//
// A YAML file can seed defaults before the environment is applied;
// environment variables always win:
//
//	var cfg ClientConfig
//	err := config.LoadFile("~/.config/careerlaunch/config.yaml", &cfg)
//
// Tests that mutate the process environment should call ResetCache or
// ForceReload to bypass the per-type cache.
package config

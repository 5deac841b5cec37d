package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into v using `env` struct tags.
// The first call in the process also loads a .env file from the working
// directory if one exists. Each distinct struct type is parsed once and
// cached; later calls for the same type copy the cached value into v.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingEnv, err)
	}
	cache[key] = *v
	return nil
}

// MustLoad is Load but panics on failure. Intended for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadEnv loads the named .env files into the process environment.
// Later files take precedence over earlier ones for overlapping keys.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Overload(p); err != nil {
			return errors.Join(ErrReadingFile, err)
		}
	}
	return nil
}

// MustLoadEnv is LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// LoadFile seeds v from a YAML file, then applies environment variables
// on top so the environment always wins. A missing file is not an error;
// the result is then identical to Load. The parsed value is not cached.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, v); err != nil {
			return errors.Join(ErrDecodingFile, err)
		}
	case os.IsNotExist(err):
		// fall through to env parsing
	default:
		return errors.Join(ErrReadingFile, err)
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingEnv, err)
	}
	return nil
}

// ForceReload re-parses the environment into v and replaces the cached
// value for its type. Useful in tests after mutating the environment.
func ForceReload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingEnv, err)
	}
	cache[typeKey[T]()] = *v
	return nil
}

// ResetCache drops all cached configuration values.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]any)
}

func typeKey[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}

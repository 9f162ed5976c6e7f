// Package doorkeeperjwt holds the process-wide doorkeeper-jwt configuration
// and the top-level entry points: Configure builds and publishes a
// configuration, Configuration reads it back, Generate signs a token with it.
//
// Configure is expected to run during single-threaded startup, but the
// current configuration is guarded by a read-write lock so late
// reconfiguration and concurrent reads stay safe: readers always observe a
// fully built configuration or none, never a partial one, because the builder
// never publishes its config before the sequence has finished.
package doorkeeperjwt

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"

	"github.com/maxencehenneron/doorkeeper-jwt/config"
	"github.com/maxencehenneron/doorkeeper-jwt/loader"
	"github.com/maxencehenneron/doorkeeper-jwt/token"
)

// Name identifies this library in errors and defaults.
const Name = "doorkeeper-jwt"

const missingConfigurationMessage = "Configuration for " + Name + " missing."

// ErrMissingConfiguration is returned by Configuration before any successful
// Configure call.
var ErrMissingConfiguration = errors.New(missingConfigurationMessage, errors.CategoryOperation).
	WithTextCode("MISSING_CONFIGURATION")

var (
	mu      sync.RWMutex
	current *config.Config
)

// Configure executes the sequence through a fresh builder and publishes the
// finalized configuration as the current one, replacing any prior
// configuration. Nothing is published when the sequence fails.
func Configure(seq func(*config.Builder)) (*config.Config, error) {
	cfg, err := config.Build(seq)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	current = cfg
	mu.Unlock()

	return cfg, nil
}

// MustConfigure is Configure for startup paths where a bad sequence is fatal.
func MustConfigure(seq func(*config.Builder)) *config.Config {
	cfg, err := Configure(seq)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ConfigureFromLoader merges the loader's sources and publishes the result.
// Unknown keys in any source fail the build, exactly like a mistyped builder
// call.
func ConfigureFromLoader(ctx context.Context, l *loader.Loader) (*config.Config, error) {
	values, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Configure(func(b *config.Builder) {
		b.SetValues(values)
	})
}

// Configuration returns the current configuration. The same instance comes
// back on every call until the next Configure replaces it.
func Configuration() (*config.Config, error) {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil, ErrMissingConfiguration
	}
	return current, nil
}

// Generate signs a token using the current configuration.
func Generate() (string, error) {
	cfg, err := Configuration()
	if err != nil {
		return "", err
	}
	return token.Generate(cfg)
}

// Reset clears the current configuration. Intended for host test suites.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

// Package loader merges external configuration sources (files, environment
// variables, flags, literal maps, structs) into the option values a
// doorkeeper-jwt builder sequence applies. It replaces nothing about the
// builder contract: keys still go through the registry and unknown keys still
// fail the build.
package loader

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/maxencehenneron/doorkeeper-jwt/logger"
)

var (
	// DefaultEnvPrefix scopes environment lookups to this library.
	DefaultEnvPrefix = "DOORKEEPER_JWT_"
	// EnvNestingDelimiter separates nested option segments in variable names,
	// e.g. DOORKEEPER_JWT_APPLICATION__SECRET.
	EnvNestingDelimiter = "__"
	// DefaultLoadTimeout bounds a Load call across all providers.
	DefaultLoadTimeout = 30 * time.Second
)

// Loader merges providers by priority and hands back the resulting option
// values.
type Loader struct {
	providers []Provider
	timeout   time.Duration
	logger    logger.Logger
	err       error
}

// Option mutates a Loader during New.
type Option func(*Loader)

// New builds a loader from the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		timeout: DefaultLoadTimeout,
		logger:  logger.NewDefaultLogger("doorkeeper-jwt/loader"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// WithFile adds a JSON/YAML/TOML file source; the format is inferred from the
// extension, defaulting to JSON.
func WithFile(path string, order ...int) Option {
	return func(l *Loader) {
		l.providers = append(l.providers, fileProvider(path, order...))
	}
}

// WithEnv adds an environment source for variables carrying the given prefix.
// An empty prefix selects DefaultEnvPrefix.
func WithEnv(prefix string, order ...int) Option {
	return func(l *Loader) {
		if prefix == "" {
			prefix = DefaultEnvPrefix
		}
		l.providers = append(l.providers, envProvider(prefix, l, order...))
	}
}

// WithValues adds a literal map source, typically host-computed defaults.
func WithValues(values map[string]any, order ...int) Option {
	return func(l *Loader) {
		l.providers = append(l.providers, valuesProvider(values, order...))
	}
}

// WithStruct adds a struct source read through `option` tags.
func WithStruct(v any, order ...int) Option {
	return func(l *Loader) {
		if v == nil {
			l.fail(errors.New("struct source cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_STRUCT"))
			return
		}
		l.providers = append(l.providers, structProvider(v, order...))
	}
}

// WithFlags adds a pflag source; only flags the host actually defined are
// merged.
func WithFlags(flagset *pflag.FlagSet, order ...int) Option {
	return func(l *Loader) {
		if flagset == nil {
			l.fail(errors.New("flagset cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_FLAGSET"))
			return
		}
		l.providers = append(l.providers, flagsProvider(flagset, order...))
	}
}

// WithProvider adds a custom source.
func WithProvider(p Provider) Option {
	return func(l *Loader) {
		if p != nil {
			l.providers = append(l.providers, p)
		}
	}
}

// WithTimeout bounds the whole Load call.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

func (l *Loader) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// Load validates every provider, merges them in priority order, and returns
// the flattened option values keyed the way a builder sequence would write
// them. Later (higher priority) providers win merges.
func (l *Loader) Load(ctx context.Context) (map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	for i, p := range l.providers {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid provider source").
				WithTextCode("INVALID_PROVIDER").
				WithMetadata(map[string]any{
					"provider_type":  string(p.Type()),
					"provider_index": i,
				})
		}
	}

	providers := make([]Provider, len(l.providers))
	copy(providers, l.providers)
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority() < providers[j].Priority()
	})

	k := koanf.New(".")
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "configuration load interrupted").
				WithTextCode("LOAD_INTERRUPTED")
		}
		l.logger.Debug("loading source %s", p.Type())
		if err := p.Load(ctx, k); err != nil {
			return nil, err
		}
	}

	return k.Raw(), nil
}

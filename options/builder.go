package options

import (
	"fmt"
	"sort"
)

// Sequence is a configuration sequence: a series of option writes expressed
// as calls against the builder.
type Sequence func(*Builder)

// Builder executes a configuration sequence against a fresh Config. It is
// transient: callers keep only the Config returned by Build.
type Builder struct {
	registry *Registry
	config   *Config
	err      error
}

// NewBuilder constructs a builder over the registry and immediately executes
// the sequence against it. By the time NewBuilder returns, the internal
// Config is fully populated; Build only hands it out.
func NewBuilder(r *Registry, seq Sequence) *Builder {
	b := &Builder{
		registry: r,
		config:   newConfig(r),
	}
	if seq != nil {
		seq(b)
	}
	return b
}

// Set stores value under the option whose write key is alias. Writing an
// undeclared alias records an ErrUnknownOption failure; writing a plain value
// to an option declared with a nested builder records ErrInvalidOption.
func (b *Builder) Set(alias string, value any) *Builder {
	spec, ok := b.registry.LookupAlias(alias)
	if !ok {
		b.fail(alias, ErrUnknownOption, fmt.Errorf("%w: %q is not declared", ErrUnknownOption, alias))
		return b
	}
	if spec.Nested != nil {
		values, ok := value.(map[string]any)
		if !ok {
			b.fail(alias, ErrInvalidOption, fmt.Errorf("%w: %q is declared with a nested builder and takes a sequence", ErrInvalidOption, alias))
			return b
		}
		return b.SetNested(alias, func(nb *Builder) {
			nb.SetAll(values)
		})
	}
	b.config.set(spec.Name, value)
	return b
}

// SetFunc evaluates producer exactly once, now, and stores its result. Reads
// return the stored result; the producer is never re-invoked. This contrasts
// with Spec.DefaultFunc, which runs fresh on every defaulted read.
func (b *Builder) SetFunc(alias string, producer func() any) *Builder {
	if producer == nil {
		b.fail(alias, ErrInvalidOption, fmt.Errorf("%w: nil producer for %q", ErrInvalidOption, alias))
		return b
	}
	return b.Set(alias, producer())
}

// SetNested runs seq through a builder over the option's nested registry and
// stores the finalized Config, never the builder itself.
func (b *Builder) SetNested(alias string, seq Sequence) *Builder {
	spec, ok := b.registry.LookupAlias(alias)
	if !ok {
		b.fail(alias, ErrUnknownOption, fmt.Errorf("%w: %q is not declared", ErrUnknownOption, alias))
		return b
	}
	if spec.Nested == nil {
		b.fail(alias, ErrInvalidOption, fmt.Errorf("%w: %q is not declared with a nested builder", ErrInvalidOption, alias))
		return b
	}
	nested, err := NewBuilder(spec.Nested, seq).Build()
	if err != nil {
		if b.err == nil {
			b.err = optionError(alias, ErrInvalidOption, err)
		}
		return b
	}
	b.config.set(spec.Name, nested)
	return b
}

// SetAll applies every entry of values keyed by alias. Map entries for
// nested-builder options are routed through the nested builder. Keys are
// applied in sorted order so the first recorded error is deterministic.
func (b *Builder) SetAll(values map[string]any) *Builder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

// Err returns the first failure recorded while the sequence ran.
func (b *Builder) Err() error {
	return b.err
}

// Build finalizes the sequence. It is idempotent: repeated calls return the
// identical Config and never re-execute the sequence. When the sequence
// recorded a failure, Build returns it and no Config.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.config, nil
}

func (b *Builder) fail(option string, base error, err error) {
	if b.err != nil {
		return
	}
	b.err = optionError(option, base, err)
}

package config

import (
	"github.com/maxencehenneron/doorkeeper-jwt/options"
)

// Builder executes a configuration sequence and finalizes it into a Config.
// Each method writes exactly one declared option; the sequence runs eagerly
// inside New.
type Builder struct {
	b     *options.Builder
	built *Config
}

// New constructs a builder and immediately executes seq against it.
func New(seq func(*Builder)) *Builder {
	b := &Builder{b: options.NewBuilder(registry, nil)}
	if seq != nil {
		seq(b)
	}
	return b
}

// Build runs seq through a fresh builder and finalizes it.
func Build(seq func(*Builder)) (*Config, error) {
	return New(seq).Build()
}

// Build finalizes the sequence. Idempotent: the same Config comes back on
// every call, and the sequence never re-executes.
func (b *Builder) Build() (*Config, error) {
	cfg, err := b.b.Build()
	if err != nil {
		return nil, err
	}
	if b.built == nil {
		b.built = &Config{o: cfg}
	}
	return b.built, nil
}

// Err returns the first failure recorded while the sequence ran.
func (b *Builder) Err() error {
	return b.b.Err()
}

// SecretKey sets the static signing secret.
func (b *Builder) SecretKey(v string) *Builder {
	b.b.Set(OptionSecretKey, v)
	return b
}

// SecretKeyFunc sets the signing secret from a producer evaluated once, while
// the sequence runs.
func (b *Builder) SecretKeyFunc(fn func() string) *Builder {
	b.b.SetFunc(OptionSecretKey, stringProducer(fn))
	return b
}

// SecretKeyPath sets the path of a file holding the signing key.
func (b *Builder) SecretKeyPath(v string) *Builder {
	b.b.Set(OptionSecretKeyPath, v)
	return b
}

// SigningMethod sets the JWA algorithm used to sign generated tokens.
func (b *Builder) SigningMethod(v string) *Builder {
	b.b.Set(OptionSigningMethod, v)
	return b
}

// EncryptionMethod is the historical name for SigningMethod, kept so old
// initializers keep working.
func (b *Builder) EncryptionMethod(v string) *Builder {
	return b.SigningMethod(v)
}

// UseApplicationSecret toggles signing with the application secret.
func (b *Builder) UseApplicationSecret(v bool) *Builder {
	b.b.Set(OptionUseApplicationSecret, v)
	return b
}

// TokenPayload sets the claims for generated tokens.
func (b *Builder) TokenPayload(claims map[string]any) *Builder {
	b.b.Set(OptionTokenPayload, claims)
	return b
}

// TokenPayloadFunc sets the claims from a producer evaluated once, while the
// sequence runs. The stored result is returned as-is on every read; contrast
// with the declared default, which produces a fresh map per read.
func (b *Builder) TokenPayloadFunc(fn func() map[string]any) *Builder {
	b.b.SetFunc(OptionTokenPayload, mapProducer(fn))
	return b
}

// TokenHeaders sets extra JOSE header entries for generated tokens.
func (b *Builder) TokenHeaders(headers map[string]any) *Builder {
	b.b.Set(OptionTokenHeaders, headers)
	return b
}

// TokenHeadersFunc sets the headers from a producer evaluated once.
func (b *Builder) TokenHeadersFunc(fn func() map[string]any) *Builder {
	b.b.SetFunc(OptionTokenHeaders, mapProducer(fn))
	return b
}

// Application configures the nested application credentials block. The
// sub-sequence is finalized immediately and the resulting configuration, not
// the sub-builder, is stored.
func (b *Builder) Application(seq func(*ApplicationBuilder)) *Builder {
	b.b.SetNested(OptionApplication, func(nb *options.Builder) {
		if seq != nil {
			seq(&ApplicationBuilder{b: nb})
		}
	})
	return b
}

// SetValues bulk-applies loader output onto the builder. Unknown keys fail
// the build exactly like a mistyped builder call would.
func (b *Builder) SetValues(values map[string]any) *Builder {
	b.b.SetAll(values)
	return b
}

// ApplicationBuilder configures the application sub-options.
type ApplicationBuilder struct {
	b *options.Builder
}

// Secret sets the OAuth application secret.
func (a *ApplicationBuilder) Secret(v string) *ApplicationBuilder {
	a.b.Set(OptionApplicationSecret, v)
	return a
}

// UID sets the OAuth application client identifier.
func (a *ApplicationBuilder) UID(v string) *ApplicationBuilder {
	a.b.Set(OptionApplicationUID, v)
	return a
}

func stringProducer(fn func() string) func() any {
	if fn == nil {
		return nil
	}
	return func() any { return fn() }
}

func mapProducer(fn func() map[string]any) func() any {
	if fn == nil {
		return nil
	}
	return func() any { return fn() }
}

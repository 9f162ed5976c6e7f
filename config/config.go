// Package config declares the doorkeeper-jwt options and exposes the typed
// builder and accessor surface over them. The registry below is the single
// source of truth: every builder method and accessor in this package maps
// mechanically onto one declared option.
package config

import (
	"github.com/maxencehenneron/doorkeeper-jwt/options"
)

// Option names as declared on the registry. These are the read keys and,
// except where an alias is declared, the write keys used by loaders.
const (
	OptionSecretKey            = "secret_key"
	OptionSecretKeyPath        = "secret_key_path"
	OptionSigningMethod        = "signing_method"
	OptionUseApplicationSecret = "use_application_secret"
	OptionTokenPayload         = "token_payload"
	OptionTokenHeaders         = "token_headers"
	OptionApplication          = "application"

	// application sub-options
	OptionApplicationSecret = "secret"
	OptionApplicationUID    = "uid"
)

var applicationRegistry = options.MustNewRegistry(
	options.Spec{Name: OptionApplicationSecret},
	options.Spec{Name: OptionApplicationUID},
)

// registry is populated once at package load; any declaration error here is
// fatal to startup.
var registry = options.MustNewRegistry(
	options.Spec{Name: OptionSecretKey},
	options.Spec{Name: OptionSecretKeyPath},
	options.Spec{Name: OptionSigningMethod},
	options.Spec{Name: OptionUseApplicationSecret, Default: false},
	options.Spec{Name: OptionTokenPayload, DefaultFunc: func() any { return map[string]any{} }},
	options.Spec{Name: OptionTokenHeaders, DefaultFunc: func() any { return map[string]any{} }},
	options.Spec{Name: OptionApplication, Nested: applicationRegistry},
)

// Registry returns the doorkeeper-jwt option declaration.
func Registry() *options.Registry {
	return registry
}

// Config is the immutable-after-build holder of resolved doorkeeper-jwt
// options.
type Config struct {
	o *options.Config
}

// SecretKey is the static signing secret. For HMAC methods it is used as the
// raw key; for asymmetric methods it must hold a PEM-encoded private key.
func (c *Config) SecretKey() string {
	s, _ := c.o.Get(OptionSecretKey).(string)
	return s
}

// SecretKeyPath points at a file holding the signing key; it takes precedence
// over SecretKey when set.
func (c *Config) SecretKeyPath() string {
	s, _ := c.o.Get(OptionSecretKeyPath).(string)
	return s
}

// SigningMethod is the JWA algorithm name ("HS256", "RS512", "none", ...).
// Empty means unsigned.
func (c *Config) SigningMethod() string {
	s, _ := c.o.Get(OptionSigningMethod).(string)
	return s
}

// UseApplicationSecret makes token generation sign with the configured
// application secret instead of SecretKey.
func (c *Config) UseApplicationSecret() bool {
	v, _ := c.o.Get(OptionUseApplicationSecret).(bool)
	return v
}

// TokenPayload returns the claims for generated tokens. Defaults to a fresh
// empty map on every read when never set.
func (c *Config) TokenPayload() map[string]any {
	m, _ := c.o.Get(OptionTokenPayload).(map[string]any)
	return m
}

// TokenHeaders returns extra JOSE header entries merged into generated
// tokens. Defaults to a fresh empty map on every read when never set.
func (c *Config) TokenHeaders() map[string]any {
	m, _ := c.o.Get(OptionTokenHeaders).(map[string]any)
	return m
}

// Application returns the nested application credentials, or nil when the
// block was never configured.
func (c *Config) Application() *Application {
	nested, _ := c.o.Get(OptionApplication).(*options.Config)
	if nested == nil {
		return nil
	}
	return &Application{o: nested}
}

// Options exposes the underlying resolved store, e.g. for Unmarshal.
func (c *Config) Options() *options.Config {
	return c.o
}

// Application holds the finalized application sub-configuration.
type Application struct {
	o *options.Config
}

// Secret is the OAuth application secret used when use_application_secret is
// set.
func (a *Application) Secret() string {
	s, _ := a.o.Get(OptionApplicationSecret).(string)
	return s
}

// UID is the OAuth application client identifier.
func (a *Application) UID() string {
	s, _ := a.o.Get(OptionApplicationUID).(string)
	return s
}

package options

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Config holds the resolved value for every declared option. It is sparse:
// only options explicitly set during building are stored, everything else
// falls back to the declared default at read time. A Config is logically
// immutable once returned by Builder.Build; there is no mutation path outside
// the builder.
type Config struct {
	registry *Registry
	values   map[string]any
}

func newConfig(r *Registry) *Config {
	return &Config{
		registry: r,
		values:   make(map[string]any),
	}
}

// Get returns the stored value for name, or the declared default when the
// option was never set. A DefaultFunc default is invoked fresh on every
// defaulted read; it is never memoized, so producers can return a new value
// each time. Literal defaults are deep-copied so callers cannot mutate the
// declaration. Undeclared names read as nil.
func (c *Config) Get(name string) any {
	if v, ok := c.values[name]; ok {
		return v
	}
	spec, ok := c.registry.Lookup(name)
	if !ok {
		return nil
	}
	if spec.DefaultFunc != nil {
		return spec.DefaultFunc()
	}
	return cloneDefault(spec.Default)
}

// IsSet reports whether the option was explicitly set during building.
func (c *Config) IsSet(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Registry returns the declaration this config was resolved against.
func (c *Config) Registry() *Registry {
	return c.registry
}

// Resolved materializes every declared option into a map, applying default
// fallback. Nested configs are flattened into plain maps so the result can be
// decoded or serialized directly.
func (c *Config) Resolved() map[string]any {
	out := make(map[string]any, len(c.registry.names))
	for _, name := range c.registry.names {
		value := c.Get(name)
		if nested, ok := value.(*Config); ok && nested != nil {
			value = nested.Resolved()
		}
		out[name] = value
	}
	return out
}

// Unmarshal decodes the resolved option values into target using the `option`
// struct tag. Defaults participate exactly as in Get.
func (c *Config) Unmarshal(target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "option",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("options: failed to build decoder: %w", err)
	}
	if err := decoder.Decode(c.Resolved()); err != nil {
		return fmt.Errorf("options: failed to decode resolved options: %w", err)
	}
	return nil
}

// set is the builder's private mutation path.
func (c *Config) set(name string, value any) {
	c.values[name] = value
}

func cloneDefault(value any) any {
	if value == nil {
		return nil
	}
	cloned, err := copystructure.Copy(value)
	if err != nil {
		return value
	}
	return cloned
}

package options

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOption indicates two Specs in the same Registry share a name or alias.
	ErrDuplicateOption = errors.New("options: duplicate option declaration")
	// ErrInvalidOption indicates a malformed Spec or a write that contradicts the declaration.
	ErrInvalidOption = errors.New("options: invalid option")
	// ErrUnknownOption indicates a write keyed by an alias no Spec declares.
	ErrUnknownOption = errors.New("options: unknown option")
)

// OptionError describes a declaration or build failure for a specific option.
type OptionError struct {
	Option string
	Base   error
	Err    error
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("option %q: %v", e.Option, e.Err)
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *OptionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the target matches either the sentinel or wrapped error.
func (e *OptionError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if errors.Is(e.Base, target) {
		return true
	}
	return errors.Is(e.Err, target)
}

func optionError(option string, base error, err error) error {
	if err == nil {
		return nil
	}
	return &OptionError{
		Option: option,
		Base:   base,
		Err:    err,
	}
}

// Spec declares a single option: its read name, the alias used on the write
// path, its default, and an optional nested registry when the value is built
// from a sub-sequence rather than supplied directly.
type Spec struct {
	// Name is the key the option is read under. Unique within a Registry.
	Name string
	// Alias is the key the option is written under. Defaults to Name; a
	// builder alias may legitimately populate a differently named option.
	Alias string
	// Default is the literal fallback returned when the option was never set.
	// Mutable defaults (maps, slices) are deep-copied per read.
	Default any
	// DefaultFunc produces the fallback lazily and is re-invoked on every
	// defaulted read. Mutually exclusive with Default.
	DefaultFunc func() any
	// Nested marks the option as sub-builder backed: writes take a Sequence
	// executed against a Builder over this registry and store the finalized
	// Config as the option value.
	Nested *Registry
}

func (s Spec) alias() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// Registry is the immutable, declaration-time set of recognized options.
type Registry struct {
	byName  map[string]Spec
	byAlias map[string]Spec
	names   []string
}

// NewRegistry declares a registry from the given specs. Declaring two specs
// with the same name, or the same alias, is a hard error; declaration runs
// once at load time and any failure here is fatal to startup.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Spec, len(specs)),
		byAlias: make(map[string]Spec, len(specs)),
	}
	for _, spec := range specs {
		if err := r.register(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for package-level declarations; it panics on
// invalid or colliding specs.
func MustNewRegistry(specs ...Spec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(spec Spec) error {
	if spec.Name == "" {
		return optionError(spec.Name, ErrInvalidOption, fmt.Errorf("%w: name is required", ErrInvalidOption))
	}
	if spec.Default != nil && spec.DefaultFunc != nil {
		return optionError(spec.Name, ErrInvalidOption, fmt.Errorf("%w: Default and DefaultFunc are mutually exclusive", ErrInvalidOption))
	}
	if _, exists := r.byName[spec.Name]; exists {
		return optionError(spec.Name, ErrDuplicateOption, fmt.Errorf("%w: name %q already declared", ErrDuplicateOption, spec.Name))
	}
	alias := spec.alias()
	if _, exists := r.byAlias[alias]; exists {
		return optionError(spec.Name, ErrDuplicateOption, fmt.Errorf("%w: alias %q already declared", ErrDuplicateOption, alias))
	}
	r.byName[spec.Name] = spec
	r.byAlias[alias] = spec
	r.names = append(r.names, spec.Name)
	return nil
}

// Names returns the declared option names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the spec declared under the given name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// LookupAlias returns the spec whose write key is the given alias.
func (r *Registry) LookupAlias(alias string) (Spec, bool) {
	spec, ok := r.byAlias[alias]
	return spec, ok
}

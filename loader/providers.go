package loader

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/maxencehenneron/doorkeeper-jwt/koanf/providers/env"
)

// ProviderType tags a source for diagnostics and validation.
type ProviderType string

const (
	ProviderTypeValues ProviderType = "values"
	ProviderTypeStruct ProviderType = "struct"
	ProviderTypeFile   ProviderType = "file"
	ProviderTypeEnv    ProviderType = "env"
	ProviderTypeFlag   ProviderType = "pflag"
)

func (p ProviderType) String() string {
	return string(p)
}

func (p ProviderType) validate() error {
	switch p {
	case ProviderTypeValues, ProviderTypeStruct, ProviderTypeFile, ProviderTypeEnv, ProviderTypeFlag:
		return nil
	default:
		return errors.New("invalid provider type", errors.CategoryValidation).
			WithTextCode("INVALID_PROVIDER_TYPE").
			WithMetadata(map[string]any{
				"provider_type": string(p),
			})
	}
}

// Priority orders providers; higher priorities load later and win merges.
type Priority int

// WithOffset shifts a base priority, e.g. PriorityFile.WithOffset(10) to load
// a local override file after the main one.
func (p Priority) WithOffset(offset int) Priority {
	return Priority(int(p) + offset)
}

var (
	PriorityValues Priority = 0
	PriorityStruct Priority = 10
	PriorityFile   Priority = 20
	PriorityEnv    Priority = 30
	PriorityFlags  Priority = 40
)

// Provider is a single configuration source the loader merges.
type Provider interface {
	Type() ProviderType
	Priority() int
	Validate() error
	Load(ctx context.Context, k *koanf.Koanf) error
}

// source is the Provider implementation behind the built-in With* options.
type source struct {
	providerType ProviderType
	order        int
	load         func(ctx context.Context, k *koanf.Koanf) error
}

func (s *source) Type() ProviderType {
	return s.providerType
}

func (s *source) Priority() int {
	return s.order
}

func (s *source) Validate() error {
	return s.providerType.validate()
}

func (s *source) Load(ctx context.Context, k *koanf.Koanf) error {
	return s.load(ctx, k)
}

func getOrder(base Priority, order ...int) int {
	if len(order) > 0 {
		return order[0]
	}
	return int(base)
}

func valuesProvider(values map[string]any, order ...int) Provider {
	return &source{
		providerType: ProviderTypeValues,
		order:        getOrder(PriorityValues, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load literal values").
					WithTextCode("VALUES_LOAD_FAILED").
					WithMetadata(map[string]any{
						"values_count": len(values),
					})
			}
			return nil
		},
	}
}

func structProvider(v any, order ...int) Provider {
	return &source{
		providerType: ProviderTypeStruct,
		order:        getOrder(PriorityStruct, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := k.Load(structs.Provider(v, "option"), nil); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from struct").
					WithTextCode("STRUCT_LOAD_FAILED")
			}
			return nil
		},
	}
}

func fileProvider(path string, order ...int) Provider {
	filetype := inferFileType(path)
	return &source{
		providerType: ProviderTypeFile,
		order:        getOrder(PriorityFile, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := k.Load(file.Provider(path), filetype.Parser()); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
					WithTextCode("FILE_LOAD_FAILED").
					WithMetadata(map[string]any{
						"filepath":  path,
						"file_type": string(filetype),
					})
			}
			return nil
		},
	}
}

func envProvider(prefix string, l *Loader, order ...int) Provider {
	return &source{
		providerType: ProviderTypeEnv,
		order:        getOrder(PriorityEnv, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			prv := env.ProviderWithValue(prefix, EnvNestingDelimiter, func(key, value string) (string, any) {
				return strings.ToLower(strings.TrimPrefix(key, prefix)), coerceEnvValue(value)
			})
			prv.SetLogger(l.logger)

			if err := k.Load(prv, json.Parser()); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
					WithTextCode("ENV_LOAD_FAILED").
					WithMetadata(map[string]any{
						"prefix": prefix,
					})
			}
			return nil
		},
	}
}

// coerceEnvValue types bare scalar literals so boolean and numeric options
// survive the environment's string-only surface. Anything else stays a string.
func coerceEnvValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func flagsProvider(flagset *pflag.FlagSet, order ...int) Provider {
	return &source{
		providerType: ProviderTypeFlag,
		order:        getOrder(PriorityFlags, order...),
		load: func(ctx context.Context, k *koanf.Koanf) error {
			if err := k.Load(posflag.Provider(flagset, ".", k), nil); err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from flags").
					WithTextCode("FLAGS_LOAD_FAILED")
			}
			return nil
		},
	}
}

// Package env implements a koanf provider over environment variables that
// supports nested keys and arrays by accumulating variables into a JSON
// document. DOORKEEPER_JWT_APPLICATION__SECRET=s becomes
// {"application": {"secret": "s"}} once the loader's transform has run, and
// numeric path segments (KEYS__0__PATH=...) become array elements.
//
// The provider only implements ReadBytes; pair it with a JSON parser when
// loading it into koanf.
package env

import (
	"errors"
	"os"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/maxencehenneron/doorkeeper-jwt/logger"
)

// Env reads prefixed environment variables into a JSON document.
type Env struct {
	prefix string
	delim  string
	cb     func(key, value string) (string, any)
	log    logger.Logger
}

// Provider returns an environment variable provider capturing variables with
// the given prefix (case-sensitive). delim defines the nesting separator
// inside variable names. cb optionally rewrites each variable name (strip the
// prefix, lowercase, remap separators); returning an empty string drops the
// variable.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	e := &Env{
		prefix: prefix,
		delim:  delim,
		log:    logger.Noop{},
	}
	if cb != nil {
		e.cb = func(key, value string) (string, any) {
			return cb(key), value
		}
	}
	return e
}

// ProviderWithValue is Provider with a callback that can rewrite values as
// well as names, e.g. to split a variable into a string slice.
func ProviderWithValue(prefix, delim string, cb func(key, value string) (string, any)) *Env {
	return &Env{
		prefix: prefix,
		delim:  delim,
		cb:     cb,
		log:    logger.Noop{},
	}
}

// SetLogger attaches a logger used for per-variable debug output.
func (e *Env) SetLogger(l logger.Logger) {
	if l != nil {
		e.log = l
	}
}

// ReadBytes renders the captured environment variables as a JSON document.
func (e *Env) ReadBytes() ([]byte, error) {
	out := "{}"

	for _, raw := range os.Environ() {
		if e.prefix != "" && !strings.HasPrefix(raw, e.prefix) {
			continue
		}

		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		var value any = parts[1]
		if e.cb != nil {
			key, value = e.cb(parts[0], parts[1])
			if key == "" {
				continue
			}
		}

		e.log.Debug("env provider captured %s", key)

		path := strings.ReplaceAll(key, e.delim, ".")
		next, err := sjson.Set(out, path, value)
		if err != nil {
			return nil, err
		}
		out = next
	}

	return []byte(out), nil
}

// Read is not supported; this provider emits bytes for a JSON parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support this method")
}

// Package placeholder rewrites {token} placeholders inside extracted
// metadata values. Resolution is best-effort: unresolved tokens are left
// verbatim and reported through the warn callback, never as errors.
package placeholder

import (
	"os"
	"regexp"
	"strings"
)

// EnvPrefix prefixes the uppercased token to form the environment
// variable consulted by EnvStore: {schema} reads STENCIL_VAR_SCHEMA.
const EnvPrefix = "STENCIL_VAR_"

var tokenPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Store supplies replacement values for placeholder tokens.
type Store interface {
	Lookup(token string) (string, bool)
}

// EnvStore resolves tokens from process environment variables.
type EnvStore struct{}

func (EnvStore) Lookup(token string) (string, bool) {
	return os.LookupEnv(EnvPrefix + strings.ToUpper(token))
}

// MapStore resolves tokens from a fixed map. Tests and embedders that
// carry their own configuration use this instead of the environment.
type MapStore map[string]string

func (m MapStore) Lookup(token string) (string, bool) {
	v, ok := m[token]
	return v, ok
}

// Resolver substitutes {token} placeholders using a Store.
type Resolver struct {
	store Store
	warn  func(format string, args ...interface{})
}

// NewResolver builds a Resolver over the given store. warn receives one
// message per unresolved token and may be nil.
func NewResolver(store Store, warn func(format string, args ...interface{})) *Resolver {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	return &Resolver{store: store, warn: warn}
}

// Resolve rewrites every {token} in input whose token the store knows.
// Unknown tokens stay in place so the output still shows what was meant.
func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{") {
		return input
	}
	return tokenPattern.ReplaceAllStringFunc(input, func(match string) string {
		token := match[1 : len(match)-1]
		if v, ok := r.store.Lookup(token); ok {
			return v
		}
		r.warn("placeholder %s is unresolved; set %s%s", match, EnvPrefix, strings.ToUpper(token))
		return match
	})
}

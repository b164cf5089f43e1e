package currency

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/amirasaad/eaglebank/pkg/domain"
)

const (
	// DefaultCurrency is the currency every new account is opened in (GBP)
	DefaultCurrency Code = "GBP"
	// DefaultDecimals is the default number of decimal places for currencies
	DefaultDecimals = 2
)

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Code is an ISO 4217 currency code.
type Code string

func (c Code) String() string {
	return string(c)
}

// Meta holds currency-specific metadata
type Meta struct {
	Decimals int
	Symbol   string
}

// Registry is a concurrency-safe set of currencies the ledger accepts.
type Registry struct {
	mu    sync.RWMutex
	items map[Code]Meta
}

// NewRegistry creates a registry seeded with the default currencies.
func NewRegistry() *Registry {
	r := &Registry{items: make(map[Code]Meta)}
	defaults := map[Code]Meta{
		"GBP": {Decimals: 2, Symbol: "£"},
		"EUR": {Decimals: 2, Symbol: "€"},
		"USD": {Decimals: 2, Symbol: "$"},
	}
	for code, meta := range defaults {
		r.Register(code, meta)
	}
	return r
}

// Register adds or updates a currency in the registry
func (r *Registry) Register(code Code, meta Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[code] = meta
}

// Get returns currency metadata for the given code
func (r *Registry) Get(code Code) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.items[code]
	return meta, ok
}

// IsSupported checks if a currency code is registered
func (r *Registry) IsSupported(code Code) bool {
	_, ok := r.Get(code)
	return ok
}

// ListSupported returns the registered codes in lexical order
func (r *Registry) ListSupported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.items))
	for code := range r.items {
		out = append(out, string(code))
	}
	sort.Strings(out)
	return out
}

var global = NewRegistry()

// Register adds a currency to the process-wide registry.
func Register(code Code, meta Meta) {
	global.Register(code, meta)
}

// IsSupported reports whether code is in the process-wide registry.
func IsSupported(code Code) bool {
	return global.IsSupported(code)
}

// IsValidCurrencyFormat reports whether code looks like an ISO 4217 code.
func IsValidCurrencyFormat(code string) bool {
	return codePattern.MatchString(code)
}

// Parse validates a raw code and returns it as a Code. Lowercase input is
// accepted and upper-cased.
func Parse(raw string) (Code, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !IsValidCurrencyFormat(code) {
		return "", domain.InvalidInput("invalid currency code %q", raw)
	}
	if !IsSupported(Code(code)) {
		return "", domain.InvalidInput("currency %s is not supported", code)
	}
	return Code(code), nil
}

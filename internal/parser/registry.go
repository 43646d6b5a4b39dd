package parser

import (
	"sync"

	apperrors "github.com/marquee-led/marquee/internal/errors"
)

// Func extracts display text from a raw payload. Implementations must be pure
// functions of their inputs so that scheduler retries can repeat a parse
// verbatim. A Func returns an empty string (with nil error) when the payload
// legitimately contains nothing to display.
type Func func(payload []byte, opts Options) (string, error)

// Options carries parser-specific configuration from the source descriptor,
// e.g. the JSON path for the json_path parser.
type Options map[string]any

// String returns the string value for key, or "" if absent or not a string.
func (o Options) String(key string) string {
	if o == nil {
		return ""
	}
	v, _ := o[key].(string)
	return v
}

// Int returns the int value for key, or def if absent or not numeric.
func (o Options) Int(key string, def int) int {
	if o == nil {
		return def
	}
	switch v := o[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Registry maps parser identifiers to extraction functions. It is populated
// at startup and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Func)}
}

// Register adds or replaces a parser under the given id.
func (r *Registry) Register(id string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[id] = fn
}

// Resolve returns the parser registered under id, or a not-found error.
func (r *Registry) Resolve(id string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.parsers[id]
	if !ok {
		return nil, apperrors.NotFoundError("parser not registered").WithContext("parser", id)
	}
	return fn, nil
}

// List returns the ids of all registered parsers.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.parsers))
	for id := range r.parsers {
		ids = append(ids, id)
	}
	return ids
}

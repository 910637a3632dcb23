package mcp

import (
	"fmt"
	"sync"

	"orgbridge/internal/config"
)

// DuplicateNameError means a (category, name) pair was registered twice.
// Registration-time misuse is a fatal configuration error.
type DuplicateNameError struct {
	Category Category
	Name     string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Category, e.Name)
}

// InvalidSchemaError means a tool descriptor arrived without a usable input
// schema.
type InvalidSchemaError struct {
	Name   string
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("tool %q input schema invalid: %s", e.Name, e.Reason)
}

// NotFoundError is returned by lookups for unknown descriptors. During
// steady-state request handling it becomes an error response, never a crash.
type NotFoundError struct {
	Category Category
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Category, e.Name)
}

type Registry interface {
	Register(d Descriptor) error
	Lookup(category Category, name string) (Descriptor, error)
	ListAll(category Category) []Descriptor
}

type registryKey struct {
	category Category
	name     string
}

// HandlerRegistry holds every capability the server exposes. Listing order
// is registration order, so repeated list calls stay stable for clients
// that cache the result. After Seal, registration is refused: a late
// registration would never reach clients that already listed.
type HandlerRegistry struct {
	cfg    *config.Config
	mu     sync.RWMutex
	index  map[registryKey]int
	items  []Descriptor
	sealed bool
}

func NewRegistry(cfg *config.Config) *HandlerRegistry {
	return &HandlerRegistry{cfg: cfg, index: map[registryKey]int{}}
}

func (r *HandlerRegistry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor name required")
	}
	switch d.Category {
	case CategoryTool, CategoryPrompt, CategoryResource:
	default:
		return fmt.Errorf("descriptor %q: unknown category %q", d.Name, d.Category)
	}
	if d.Category == CategoryTool {
		if err := validateToolSchema(d); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("registry sealed: cannot register %s %q after startup", d.Category, d.Name)
	}
	key := registryKey{category: d.Category, name: d.Name}
	if _, exists := r.index[key]; exists {
		return &DuplicateNameError{Category: d.Category, Name: d.Name}
	}
	if !r.allowedBySafety(d) {
		return nil
	}
	r.index[key] = len(r.items)
	r.items = append(r.items, d)
	return nil
}

func (r *HandlerRegistry) Lookup(category Category, name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[registryKey{category: category, name: name}]
	if !ok {
		return Descriptor{}, &NotFoundError{Category: category, Name: name}
	}
	return r.items[idx], nil
}

// ListAll returns descriptors of one category in registration order. The
// returned slice is a fresh copy; callers may range over it repeatedly.
func (r *HandlerRegistry) ListAll(category Category) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Descriptor
	for _, d := range r.items {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Seal freezes the registry. Called once before the transport binds.
func (r *HandlerRegistry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *HandlerRegistry) Names(category Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, d := range r.items {
		if d.Category == category {
			names = append(names, d.Name)
		}
	}
	return names
}

func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func validateToolSchema(d Descriptor) error {
	if d.InputSchema == nil {
		return &InvalidSchemaError{Name: d.Name, Reason: "schema missing"}
	}
	typ, ok := d.InputSchema["type"].(string)
	if !ok || typ != "object" {
		return &InvalidSchemaError{Name: d.Name, Reason: "schema must describe an object"}
	}
	return nil
}

func (r *HandlerRegistry) allowedBySafety(d Descriptor) bool {
	if r.cfg == nil || d.Category != CategoryTool {
		return true
	}
	if r.cfg.ReadOnly {
		return d.Safety == SafetyReadOnly
	}
	return true
}

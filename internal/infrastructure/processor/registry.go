package processor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mirola777/order-capture-service/internal/domain"
)

// Registry maps processor names to their capture implementation.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]domain.PaymentMethod
}

func NewRegistry(methods ...domain.PaymentMethod) *Registry {
	r := &Registry{methods: make(map[string]domain.PaymentMethod, len(methods))}
	for _, m := range methods {
		r.Register(m)
	}
	return r
}

// Register adds m under m.Name(), replacing any previous method of that name.
func (r *Registry) Register(m domain.PaymentMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Name()] = m
}

func (r *Registry) Lookup(name string) (domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProcessor, name)
	}
	return m, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

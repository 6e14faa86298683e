package lock

import (
	"context"
	"sync"

	"github.com/mirola777/order-capture-service/internal/domain"
)

// Local holds order locks in process memory. It only serializes captures
// served by the same instance.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Lock(_ context.Context, orderID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[orderID]; busy {
		return nil, domain.ErrOrderLocked
	}
	l.held[orderID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, orderID)
			l.mu.Unlock()
		})
	}, nil
}

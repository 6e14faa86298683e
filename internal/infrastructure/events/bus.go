package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Handler func(ctx context.Context, name string, payload any) error

// Bus delivers events synchronously to the handlers subscribed to them.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Emit runs every handler of name, even after one fails, and returns their
// joined errors.
func (b *Bus) Emit(ctx context.Context, name string, payload any) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := b.call(ctx, h, name, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) call(ctx context.Context, h Handler, name string, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", zap.String("event", name), zap.Any("panic", r))
			err = fmt.Errorf("handler for %s panicked: %v", name, r)
		}
	}()
	return h(ctx, name, payload)
}

// LogHandler writes a line per delivered event.
func LogHandler(logger *zap.Logger) Handler {
	return func(_ context.Context, name string, payload any) error {
		logger.Info("event emitted", zap.String("event", name), zap.String("order_id", orderKey(payload)))
		return nil
	}
}

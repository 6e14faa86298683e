package domain

import (
	"context"
	"errors"
)

var (
	ErrOrderLocked       = errors.New("order is locked by another capture")
	ErrVersionConflict   = errors.New("order was modified concurrently")
	ErrUnknownProcessor  = errors.New("no payment method registered for processor")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrEmptyCaptureReply = errors.New("payment method returned no capture result")

	ErrDuplicateIdempotencyKey = errors.New("idempotency key already recorded")
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByIDAndShop(ctx context.Context, orderID, shopID string) (*Order, error)
	// UpdateWorkflow writes the order's workflow and returns the stored snapshot.
	UpdateWorkflow(ctx context.Context, order *Order) (*Order, error)
	// UpdatePayments writes the order's payments and updatedAt in one statement
	// and returns the stored snapshot.
	UpdatePayments(ctx context.Context, order *Order) (*Order, error)
}

type IdempotencyRepository interface {
	FindByKey(ctx context.Context, key string) (*IdempotencyRecord, error)
	// FindByKeyForUpdate returns the record even when expired, locking its row
	// when called inside a transaction.
	FindByKeyForUpdate(ctx context.Context, key string) (*IdempotencyRecord, error)
	Create(ctx context.Context, record *IdempotencyRecord) error
	Update(ctx context.Context, record *IdempotencyRecord) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentMethod is a processor-specific capture capability.
type PaymentMethod interface {
	Name() string
	CapturePayment(ctx context.Context, payment Payment) (*CaptureOutcome, error)
}

type PaymentMethodRegistry interface {
	Lookup(name string) (PaymentMethod, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, name string, payload any) error
}

// OrderLocker serializes captures of the same order. Lock fails with
// ErrOrderLocked when the order is already held.
type OrderLocker interface {
	Lock(ctx context.Context, orderID string) (release func(), err error)
}

type PermissionChecker interface {
	ValidatePermissions(ctx context.Context, actor Actor, resource, action, shopID string) error
}

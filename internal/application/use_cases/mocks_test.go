package use_cases

import (
	"context"

	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) FindByIDAndShop(ctx context.Context, orderID, shopID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateWorkflow(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return storedSnapshot(m.Called(ctx, order), order)
}

func (m *mockOrderRepo) UpdatePayments(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return storedSnapshot(m.Called(ctx, order), order)
}

// storedSnapshot returns the configured order, or a copy of the written one
// with its version bumped when the expectation returns (nil, nil).
func storedSnapshot(args mock.Arguments, written *domain.Order) (*domain.Order, error) {
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if args.Get(0) == nil {
		stored := written.Clone()
		stored.Version++
		return stored, nil
	}
	return args.Get(0).(*domain.Order), nil
}

type mockIdempotencyRepo struct {
	mock.Mock
}

func (m *mockIdempotencyRepo) FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *mockIdempotencyRepo) FindByKeyForUpdate(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *mockIdempotencyRepo) Create(ctx context.Context, record *domain.IdempotencyRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockIdempotencyRepo) Update(ctx context.Context, record *domain.IdempotencyRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockIdempotencyRepo) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// passthroughTx runs the function directly without a database.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockPaymentMethod struct {
	mock.Mock
	name string
}

func (m *mockPaymentMethod) Name() string {
	return m.name
}

func (m *mockPaymentMethod) CapturePayment(ctx context.Context, payment domain.Payment) (*domain.CaptureOutcome, error) {
	args := m.Called(ctx, payment.ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaptureOutcome), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Emit(ctx context.Context, name string, payload any) error {
	return m.Called(ctx, name, payload).Error(0)
}

// emitted returns the payloads published under name, in order.
func (m *mockPublisher) emitted(name string) []any {
	var out []any
	for _, call := range m.Calls {
		if call.Method == "Emit" && call.Arguments.String(1) == name {
			out = append(out, call.Arguments.Get(2))
		}
	}
	return out
}

type mockCapturer struct {
	mock.Mock
}

func (m *mockCapturer) Execute(ctx context.Context, actor domain.Actor, in domain.CaptureOrderPaymentsInput) (*domain.Order, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

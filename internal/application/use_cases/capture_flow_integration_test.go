package use_cases_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mirola777/order-capture-service/internal/application/use_cases"
	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"github.com/mirola777/order-capture-service/internal/infrastructure/auth"
	"github.com/mirola777/order-capture-service/internal/infrastructure/events"
	gormdb "github.com/mirola777/order-capture-service/internal/infrastructure/gorm"
	"github.com/mirola777/order-capture-service/internal/infrastructure/gorm/repositories"
	"github.com/mirola777/order-capture-service/internal/infrastructure/lock"
	"github.com/mirola777/order-capture-service/internal/infrastructure/processor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedEvent struct {
	name    string
	payload any
}

type testEnv struct {
	orders     domain.OrderRepository
	capture    *use_cases.CaptureOrderPaymentsUseCase
	idempotent *use_cases.CaptureOrderPaymentsIdempotentUseCase
	getOrder   *use_cases.GetOrderUseCase
	getByKey   *use_cases.GetByIdempotencyKeyUseCase
	mu         sync.Mutex
	emitted    []recordedEvent
}

func (e *testEnv) events(name string) []any {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []any
	for _, ev := range e.emitted {
		if ev.name == name {
			out = append(out, ev.payload)
		}
	}
	return out
}

func setupIntegration(t *testing.T) *testEnv {
	return setupIntegrationWith(t, auth.AllowAll{})
}

func setupIntegrationWith(t *testing.T, permissions domain.PermissionChecker) *testEnv {
	db, err := gormdb.NewTestConnection()
	require.NoError(t, err)

	env := &testEnv{}
	logger := zap.NewNop()

	bus := events.NewBus(logger)
	record := func(_ context.Context, name string, payload any) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.emitted = append(env.emitted, recordedEvent{name: name, payload: payload})
		return nil
	}
	bus.Subscribe(domain.EventAfterOrderUpdate, record)
	bus.Subscribe(domain.EventAfterOrderPaymentCapture, record)

	orderRepo := repositories.NewOrderRepo(db)
	idempotencyRepo := repositories.NewIdempotencyRepo(db)

	env.orders = orderRepo
	env.capture = use_cases.NewCaptureOrderPaymentsUseCase(
		orderRepo,
		processor.NewRegistry(processor.NewSimulator(0)),
		bus,
		lock.NewLocal(),
		permissions,
		logger,
	)
	env.idempotent = use_cases.NewCaptureOrderPaymentsIdempotentUseCase(
		gormdb.NewTransactionManager(db), idempotencyRepo, env.capture, permissions, 24*time.Hour, logger,
	)
	env.getOrder = use_cases.NewGetOrderUseCase(orderRepo, permissions, logger)
	env.getByKey = use_cases.NewGetByIdempotencyKeyUseCase(idempotencyRepo, permissions, logger)
	return env
}

func simulated(id string, status domain.PaymentStatus, simulate string) domain.Payment {
	p := domain.Payment{
		ID:       id,
		Name:     processor.SimulatorName,
		Mode:     domain.PaymentModeAuthorize,
		Status:   status,
		Amount:   decimal.RequireFromString("12.34"),
		Currency: "USD",
		Metadata: domain.Metadata{},
	}
	if simulate != "" {
		p.Metadata[processor.SimulateKey] = simulate
	}
	return p
}

func seedOrder(t *testing.T, env *testEnv, payments ...domain.Payment) {
	t.Helper()
	require.NoError(t, env.orders.Create(context.Background(), &domain.Order{
		ID:       "order-1",
		ShopID:   "shop-1",
		Workflow: domain.Workflow{Status: domain.WorkflowStatusNew, History: []string{domain.WorkflowStatusNew}},
		Payments: payments,
	}))
}

func input(ids ...string) domain.CaptureOrderPaymentsInput {
	return domain.CaptureOrderPaymentsInput{OrderID: "order-1", PaymentIDs: ids, ShopID: "shop-1"}
}

var actor = domain.Actor{UserID: "user-1"}

func findPayment(t *testing.T, order *domain.Order, id string) domain.Payment {
	t.Helper()
	for _, p := range order.Payments {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("payment %s missing", id)
	return domain.Payment{}
}

func TestCaptureFlow_MixedOutcomesArePersisted(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	seedOrder(t, env,
		simulated("ok", domain.PaymentStatusApproved, ""),
		simulated("declined", domain.PaymentStatusApproved, "decline"),
		simulated("broken", domain.PaymentStatusCreated, "error"),
		simulated("already", domain.PaymentStatusError, "already_captured"),
		simulated("skipped", domain.PaymentStatusApproved, ""),
	)

	result, err := env.capture.Execute(ctx, actor, input("ok", "declined", "broken", "already"))
	require.NoError(t, err)

	stored, err := env.getOrder.Execute(ctx, actor, "order-1", "shop-1")
	require.NoError(t, err)
	assert.Equal(t, result.Payments, stored.Payments)
	assert.Equal(t, domain.WorkflowStatusProcessing, stored.Workflow.Status)

	ok := findPayment(t, stored, "ok")
	assert.Equal(t, domain.PaymentModeCaptured, ok.Mode)
	assert.Equal(t, domain.PaymentStatusCompleted, ok.Status)
	assert.NotEmpty(t, ok.Metadata["captureId"])

	declined := findPayment(t, stored, "declined")
	assert.Equal(t, domain.PaymentStatusError, declined.Status)
	assert.Equal(t, "card_declined", declined.CaptureErrorCode)

	broken := findPayment(t, stored, "broken")
	assert.Equal(t, domain.PaymentStatusError, broken.Status)
	assert.Equal(t, domain.UncaughtCaptureErrorCode, broken.CaptureErrorCode)
	assert.Equal(t, "simulated gateway unavailable", broken.CaptureErrorMessage)

	already := findPayment(t, stored, "already")
	assert.Equal(t, domain.PaymentStatusCompleted, already.Status)

	for _, id := range []string{"ok", "declined", "broken", "already"} {
		assert.Len(t, findPayment(t, stored, id).Transactions, 1, id)
	}
	skipped := findPayment(t, stored, "skipped")
	assert.Equal(t, domain.PaymentStatusApproved, skipped.Status)
	assert.Empty(t, skipped.Transactions)

	assert.Len(t, env.events(domain.EventAfterOrderUpdate), 1)
	assert.Len(t, env.events(domain.EventAfterOrderPaymentCapture), 2)
}

func TestCaptureFlow_RetryOnlyRedispatchesFailures(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	seedOrder(t, env,
		simulated("ok", domain.PaymentStatusApproved, ""),
		simulated("declined", domain.PaymentStatusApproved, "decline"),
	)

	_, err := env.capture.Execute(ctx, actor, input("ok", "declined"))
	require.NoError(t, err)

	second, err := env.capture.Execute(ctx, actor, input("ok", "declined"))
	require.NoError(t, err)

	assert.Len(t, findPayment(t, second, "ok").Transactions, 1)
	assert.Len(t, findPayment(t, second, "declined").Transactions, 2)

	count := 0
	for _, s := range second.Workflow.History {
		if s == domain.WorkflowStatusProcessing {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCaptureFlow_NothingEligibleStillAdvancesWorkflow(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	done := simulated("done", domain.PaymentStatusCompleted, "")
	seedOrder(t, env, done)

	result, err := env.capture.Execute(ctx, actor, input("done"))
	require.NoError(t, err)

	assert.Equal(t, domain.WorkflowStatusProcessing, result.Workflow.Status)
	assert.Empty(t, findPayment(t, result, "done").Transactions)
	assert.Empty(t, env.events(domain.EventAfterOrderUpdate))
	assert.Empty(t, env.events(domain.EventAfterOrderPaymentCapture))
}

func TestCaptureFlow_WrongShopIsNotFound(t *testing.T) {
	env := setupIntegration(t)
	seedOrder(t, env, simulated("ok", domain.PaymentStatusApproved, ""))

	in := input("ok")
	in.ShopID = "shop-2"
	_, err := env.capture.Execute(context.Background(), actor, in)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "ORDER_NOT_FOUND", appErr.Code)
}

func TestCaptureFlow_IdempotentReplay(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	seedOrder(t, env, simulated("ok", domain.PaymentStatusApproved, ""))

	first, err := env.idempotent.Execute(ctx, actor, "replay-key", input("ok"))
	require.NoError(t, err)

	second, err := env.idempotent.Execute(ctx, actor, "replay-key", input("ok"))
	require.NoError(t, err)

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
	assert.Len(t, env.events(domain.EventAfterOrderPaymentCapture), 1)

	record, err := env.getByKey.Execute(ctx, actor, "replay-key")
	require.NoError(t, err)
	assert.Equal(t, domain.IdempotencyStatusCompleted, record.Status)
	assert.Equal(t, "order-1", record.OrderID)
}

func TestCaptureFlow_IdempotencyKeyConflict(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()
	seedOrder(t, env,
		simulated("a", domain.PaymentStatusApproved, ""),
		simulated("b", domain.PaymentStatusApproved, ""),
	)

	_, err := env.idempotent.Execute(ctx, actor, "shared-key", input("a"))
	require.NoError(t, err)

	_, err = env.idempotent.Execute(ctx, actor, "shared-key", input("b"))
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "IDEMPOTENCY_KEY_CONFLICT", appErr.Code)
}

func TestCaptureFlow_FailedRequestFreesKey(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	_, err := env.idempotent.Execute(ctx, actor, "retry-key", input("ok"))
	require.Error(t, err)

	_, err = env.getByKey.Execute(ctx, actor, "retry-key")
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, "IDEMPOTENCY_KEY_NOT_FOUND", appErr.Code)

	seedOrder(t, env, simulated("ok", domain.PaymentStatusApproved, ""))
	order, err := env.idempotent.Execute(ctx, actor, "retry-key", input("ok"))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, findPayment(t, order, "ok").Status)
}

func TestCaptureFlow_EnforcedPermissionsGuardEveryPath(t *testing.T) {
	env := setupIntegrationWith(t, auth.ClaimsChecker{})
	ctx := context.Background()
	seedOrder(t, env, simulated("ok", domain.PaymentStatusApproved, ""))

	owner := domain.Actor{UserID: "owner", ShopIDs: []string{"shop-1"}, Permissions: []string{"capture:payment", "read:order"}}
	_, err := env.idempotent.Execute(ctx, owner, "owner-key", input("ok"))
	require.NoError(t, err)

	stranger := domain.Actor{}
	denied := func(err error) {
		t.Helper()
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok, "expected app error, got %v", err)
		assert.Equal(t, "PERMISSION_DENIED", appErr.Code)
	}

	_, err = env.capture.Execute(ctx, stranger, input("ok"))
	denied(err)

	replayed, err := env.idempotent.Execute(ctx, stranger, "owner-key", input("ok"))
	denied(err)
	assert.Nil(t, replayed)

	_, err = env.getOrder.Execute(ctx, stranger, "order-1", "shop-1")
	denied(err)

	_, err = env.getByKey.Execute(ctx, stranger, "owner-key")
	denied(err)

	record, err := env.getByKey.Execute(ctx, owner, "owner-key")
	require.NoError(t, err)
	assert.Equal(t, "shop-1", record.ShopID)
}

package use_cases

import (
	"context"
	"errors"
	"time"

	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"go.uber.org/zap"
)

type CaptureOrderPaymentsUseCase struct {
	orderRepo   domain.OrderRepository
	methods     domain.PaymentMethodRegistry
	publisher   domain.EventPublisher
	locker      domain.OrderLocker
	permissions domain.PermissionChecker
	logger      *zap.Logger
	now         func() time.Time
}

func NewCaptureOrderPaymentsUseCase(
	orderRepo domain.OrderRepository,
	methods domain.PaymentMethodRegistry,
	publisher domain.EventPublisher,
	locker domain.OrderLocker,
	permissions domain.PermissionChecker,
	logger *zap.Logger,
) *CaptureOrderPaymentsUseCase {
	return &CaptureOrderPaymentsUseCase{
		orderRepo:   orderRepo,
		methods:     methods,
		publisher:   publisher,
		locker:      locker,
		permissions: permissions,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Execute captures the requested authorized payments of an order and returns
// the order as stored after the capture results were recorded. Individual
// capture failures are recorded on their payments, not returned.
func (uc *CaptureOrderPaymentsUseCase) Execute(ctx context.Context, actor domain.Actor, in domain.CaptureOrderPaymentsInput) (*domain.Order, error) {
	if err := validateCaptureInput(in); err != nil {
		return nil, err
	}

	if err := authorizeOrder(ctx, uc.permissions, uc.logger, actor, in.OrderID, in.ShopID, capturePaymentPermission); err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, in.OrderID)
	if errors.Is(err, domain.ErrOrderLocked) {
		return nil, apperrors.ErrOrderCaptureInProgress()
	}
	if err != nil {
		return nil, uc.internal("acquire order lock", in.OrderID, err)
	}
	defer release()

	order, err := uc.orderRepo.FindByIDAndShop(ctx, in.OrderID, in.ShopID)
	if err != nil {
		return nil, uc.internal("load order", in.OrderID, err)
	}
	if order == nil {
		return nil, apperrors.ErrOrderNotFound()
	}

	order, err = uc.advanceWorkflow(ctx, order)
	if err != nil {
		return nil, err
	}

	toCapture := eligiblePayments(order.Payments, in.PaymentIDs)
	if len(toCapture) == 0 {
		uc.logger.Info("no capturable payments",
			zap.String("order_id", order.ID),
			zap.Strings("payment_ids", in.PaymentIDs),
		)
		return order, nil
	}

	// Once captures are sent their results must be stored, even if the caller
	// goes away.
	ctx = context.WithoutCancel(ctx)
	outcomes := uc.dispatch(ctx, toCapture)

	updated, captured, err := reconcile(order, outcomes)
	if err != nil {
		uc.logger.Error("capture outcome does not match order", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	updated.UpdatedAt = uc.now()

	saved, err := uc.orderRepo.UpdatePayments(ctx, updated)
	if err != nil {
		return nil, uc.storeError("store capture results", order.ID, err)
	}

	uc.logger.Info("order payments captured",
		zap.String("order_id", saved.ID),
		zap.Int("attempted", len(outcomes)),
		zap.Int("captured", len(captured)),
	)

	uc.notify(ctx, actor.UserID, saved, captured)
	return saved, nil
}

// advanceWorkflow moves a new order into processing. Orders past that stage
// are returned untouched.
func (uc *CaptureOrderPaymentsUseCase) advanceWorkflow(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Workflow.Status != domain.WorkflowStatusNew {
		return order, nil
	}

	next := order.Clone()
	next.Workflow.Advance(domain.WorkflowStatusProcessing)

	stored, err := uc.orderRepo.UpdateWorkflow(ctx, next)
	if err != nil {
		return nil, uc.storeError("advance workflow", order.ID, err)
	}
	return stored, nil
}

func (uc *CaptureOrderPaymentsUseCase) notify(ctx context.Context, userID string, order *domain.Order, captured []domain.Payment) {
	err := uc.publisher.Emit(ctx, domain.EventAfterOrderUpdate, domain.OrderUpdatedEvent{
		Order:     order,
		UpdatedBy: userID,
	})
	if err != nil {
		uc.logger.Error("emit event failed",
			zap.String("event", domain.EventAfterOrderUpdate),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	for _, payment := range captured {
		err := uc.publisher.Emit(ctx, domain.EventAfterOrderPaymentCapture, domain.PaymentCapturedEvent{
			CapturedBy: userID,
			Order:      order,
			Payment:    payment,
		})
		if err != nil {
			uc.logger.Error("emit event failed",
				zap.String("event", domain.EventAfterOrderPaymentCapture),
				zap.String("order_id", order.ID),
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
		}
	}
}

func (uc *CaptureOrderPaymentsUseCase) storeError(action, orderID string, err error) error {
	if errors.Is(err, domain.ErrVersionConflict) {
		uc.logger.Warn(action+": order changed concurrently", zap.String("order_id", orderID))
		return apperrors.ErrOrderVersionConflict()
	}
	return uc.internal(action, orderID, err)
}

func (uc *CaptureOrderPaymentsUseCase) internal(action, orderID string, err error) error {
	uc.logger.Error(action+" failed", zap.String("order_id", orderID), zap.Error(err))
	return apperrors.ErrInternal()
}

package use_cases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"github.com/mirola777/order-capture-service/internal/utils/fingerprint"
	"go.uber.org/zap"
)

type orderCapturer interface {
	Execute(ctx context.Context, actor domain.Actor, in domain.CaptureOrderPaymentsInput) (*domain.Order, error)
}

// CaptureOrderPaymentsIdempotentUseCase replays the stored result of a capture
// request sent again with the same idempotency key.
type CaptureOrderPaymentsIdempotentUseCase struct {
	tm              domain.TransactionManager
	idempotencyRepo domain.IdempotencyRepository
	capture         orderCapturer
	permissions     domain.PermissionChecker
	keyTTL          time.Duration
	logger          *zap.Logger
}

func NewCaptureOrderPaymentsIdempotentUseCase(
	tm domain.TransactionManager,
	idempotencyRepo domain.IdempotencyRepository,
	capture orderCapturer,
	permissions domain.PermissionChecker,
	keyTTL time.Duration,
	logger *zap.Logger,
) *CaptureOrderPaymentsIdempotentUseCase {
	return &CaptureOrderPaymentsIdempotentUseCase{
		tm:              tm,
		idempotencyRepo: idempotencyRepo,
		capture:         capture,
		permissions:     permissions,
		keyTTL:          keyTTL,
		logger:          logger,
	}
}

func (uc *CaptureOrderPaymentsIdempotentUseCase) Execute(ctx context.Context, actor domain.Actor, idempotencyKey string, in domain.CaptureOrderPaymentsInput) (*domain.Order, error) {
	if err := validateIdempotencyKey(idempotencyKey); err != nil {
		return nil, err
	}
	if err := validateCaptureInput(in); err != nil {
		return nil, err
	}
	// A replay never reaches the capture use case, so the caller is checked here.
	if err := authorizeOrder(ctx, uc.permissions, uc.logger, actor, in.OrderID, in.ShopID, capturePaymentPermission); err != nil {
		return nil, err
	}

	fp := fingerprint.Compute(in)

	var cached *domain.Order
	var record *domain.IdempotencyRecord

	err := uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		now := time.Now()

		existing, err := uc.idempotencyRepo.FindByKeyForUpdate(txCtx, idempotencyKey)
		if err != nil {
			return err
		}

		if existing != nil && existing.Expired(now) {
			if err := uc.idempotencyRepo.Delete(txCtx, idempotencyKey); err != nil {
				return err
			}
			existing = nil
		}

		if existing != nil {
			if existing.Status == domain.IdempotencyStatusProcessing {
				return apperrors.ErrCaptureProcessing()
			}
			if existing.RequestFingerprint != fp {
				return apperrors.ErrIdempotencyKeyConflict()
			}

			var order domain.Order
			if err := json.Unmarshal(existing.ResponseBody, &order); err != nil {
				return err
			}
			cached = &order
			return nil
		}

		record = &domain.IdempotencyRecord{
			Key:                idempotencyKey,
			RequestFingerprint: fp,
			OrderID:            in.OrderID,
			ShopID:             in.ShopID,
			Status:             domain.IdempotencyStatusProcessing,
			CreatedAt:          now,
			ExpiresAt:          now.Add(uc.keyTTL),
		}
		return uc.idempotencyRepo.Create(txCtx, record)
	})
	if err != nil {
		return nil, uc.mapClaimError(idempotencyKey, err)
	}

	if cached != nil {
		uc.logger.Info("replaying stored capture result",
			zap.String("idempotency_key", idempotencyKey),
			zap.String("order_id", cached.ID),
		)
		return cached, nil
	}

	order, err := uc.capture.Execute(ctx, actor, in)
	// The key must leave PROCESSING even when the caller has gone away.
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		if delErr := uc.idempotencyRepo.Delete(ctx, idempotencyKey); delErr != nil {
			uc.logger.Error("release idempotency key failed",
				zap.String("idempotency_key", idempotencyKey),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	responseBody, err := json.Marshal(order)
	if err != nil {
		uc.logger.Error("encode capture result failed", zap.String("idempotency_key", idempotencyKey), zap.Error(err))
		return order, nil
	}

	record.Status = domain.IdempotencyStatusCompleted
	record.OrderID = order.ID
	record.ResponseBody = responseBody
	if err := uc.idempotencyRepo.Update(ctx, record); err != nil {
		uc.logger.Error("complete idempotency record failed",
			zap.String("idempotency_key", idempotencyKey),
			zap.Error(err),
		)
	}

	return order, nil
}

func (uc *CaptureOrderPaymentsIdempotentUseCase) mapClaimError(key string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
		return apperrors.ErrCaptureProcessing()
	}
	uc.logger.Error("claim idempotency key failed", zap.String("idempotency_key", key), zap.Error(err))
	return apperrors.ErrInternal()
}

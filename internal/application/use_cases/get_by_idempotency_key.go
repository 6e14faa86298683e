package use_cases

import (
	"context"

	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"go.uber.org/zap"
)

// GetByIdempotencyKeyUseCase looks up the live record of a capture request.
// Expired records are reported as not found even before the cleanup job runs.
type GetByIdempotencyKeyUseCase struct {
	idempotencyRepo domain.IdempotencyRepository
	permissions     domain.PermissionChecker
	logger          *zap.Logger
}

func NewGetByIdempotencyKeyUseCase(idempotencyRepo domain.IdempotencyRepository, permissions domain.PermissionChecker, logger *zap.Logger) *GetByIdempotencyKeyUseCase {
	return &GetByIdempotencyKeyUseCase{
		idempotencyRepo: idempotencyRepo,
		permissions:     permissions,
		logger:          logger,
	}
}

// Execute returns the record when actor may read the order it was created for.
func (uc *GetByIdempotencyKeyUseCase) Execute(ctx context.Context, actor domain.Actor, key string) (*domain.IdempotencyRecord, error) {
	if err := validateIdempotencyKey(key); err != nil {
		return nil, err
	}

	record, err := uc.idempotencyRepo.FindByKey(ctx, key)
	if err != nil {
		uc.logger.Error("load idempotency record failed", zap.String("idempotency_key", key), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	if record == nil {
		return nil, apperrors.ErrIdempotencyKeyNotFound()
	}

	if err := authorizeOrder(ctx, uc.permissions, uc.logger, actor, record.OrderID, record.ShopID, readOrderPermission); err != nil {
		return nil, err
	}
	return record, nil
}

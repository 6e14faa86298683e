package use_cases

import (
	"context"

	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"go.uber.org/zap"
)

type GetOrderUseCase struct {
	orderRepo   domain.OrderRepository
	permissions domain.PermissionChecker
	logger      *zap.Logger
}

func NewGetOrderUseCase(orderRepo domain.OrderRepository, permissions domain.PermissionChecker, logger *zap.Logger) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo:   orderRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Execute returns the stored order when actor may read orders of shopID.
func (uc *GetOrderUseCase) Execute(ctx context.Context, actor domain.Actor, orderID, shopID string) (*domain.Order, error) {
	if orderID == "" || shopID == "" {
		return nil, apperrors.ErrInvalidCaptureRequest("order_id and shop_id are required")
	}
	if err := authorizeOrder(ctx, uc.permissions, uc.logger, actor, orderID, shopID, readOrderPermission); err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.FindByIDAndShop(ctx, orderID, shopID)
	if err != nil {
		uc.logger.Error("load order failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, apperrors.ErrInternal()
	}
	if order == nil {
		return nil, apperrors.ErrOrderNotFound()
	}
	return order, nil
}

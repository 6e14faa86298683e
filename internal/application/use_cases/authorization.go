package use_cases

import (
	"context"
	"errors"
	"fmt"

	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"go.uber.org/zap"
)

const (
	capturePaymentPermission = "capture:payment"
	readOrderPermission      = "read:order"
)

func orderResource(orderID string) string {
	return fmt.Sprintf("reaction:legacy:orders:%s", orderID)
}

// authorizeOrder asks checker whether actor may perform action on the order
// of shopID. A denial becomes PERMISSION_DENIED, any other failure INTERNAL_ERROR.
func authorizeOrder(ctx context.Context, checker domain.PermissionChecker, logger *zap.Logger, actor domain.Actor, orderID, shopID, action string) error {
	err := checker.ValidatePermissions(ctx, actor, orderResource(orderID), action, shopID)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPermissionDenied) {
		logger.Info("permission denied",
			zap.String("user_id", actor.UserID),
			zap.String("order_id", orderID),
			zap.String("action", action),
		)
		return apperrors.ErrPermissionDenied()
	}
	logger.Error("validate permissions failed", zap.String("order_id", orderID), zap.Error(err))
	return apperrors.ErrInternal()
}

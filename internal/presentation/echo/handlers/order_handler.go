package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mirola777/order-capture-service/internal/application/use_cases"
	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"github.com/mirola777/order-capture-service/internal/presentation/echo/middleware"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

type captureExecutor interface {
	Execute(ctx context.Context, actor domain.Actor, in domain.CaptureOrderPaymentsInput) (*domain.Order, error)
}

type idempotentCaptureExecutor interface {
	Execute(ctx context.Context, actor domain.Actor, key string, in domain.CaptureOrderPaymentsInput) (*domain.Order, error)
}

type orderGetter interface {
	Execute(ctx context.Context, actor domain.Actor, orderID, shopID string) (*domain.Order, error)
}

type idempotencyRecordGetter interface {
	Execute(ctx context.Context, actor domain.Actor, key string) (*domain.IdempotencyRecord, error)
}

type OrderHandler struct {
	capture             captureExecutor
	captureIdempotent   idempotentCaptureExecutor
	getOrder            orderGetter
	getByIdempotencyKey idempotencyRecordGetter
}

func NewOrderHandler(container *use_cases.Container) *OrderHandler {
	return &OrderHandler{
		capture:             container.CaptureOrderPayments,
		captureIdempotent:   container.CaptureOrderPaymentsIdempotent,
		getOrder:            container.GetOrder,
		getByIdempotencyKey: container.GetByIdempotencyKey,
	}
}

type captureRequest struct {
	ShopID     string   `json:"shop_id"`
	PaymentIDs []string `json:"payment_ids"`
}

type orderResponse struct {
	Order *domain.Order `json:"order"`
}

// CapturePayments handles POST /v1/orders/:orderId/captures. With an
// X-Idempotency-Key header a repeated request returns the first result.
func (h *OrderHandler) CapturePayments(c echo.Context) error {
	var req captureRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidCaptureRequest("invalid request body")
	}

	in := domain.CaptureOrderPaymentsInput{
		OrderID:    c.Param("orderId"),
		PaymentIDs: req.PaymentIDs,
		ShopID:     req.ShopID,
	}
	actor := middleware.ActorFrom(c)
	ctx := c.Request().Context()

	var (
		order *domain.Order
		err   error
	)
	if key := c.Request().Header.Get(idempotencyKeyHeader); key != "" {
		order, err = h.captureIdempotent.Execute(ctx, actor, key, in)
	} else {
		order, err = h.capture.Execute(ctx, actor, in)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, err := h.getOrder.Execute(c.Request().Context(), middleware.ActorFrom(c), c.Param("orderId"), c.QueryParam("shop_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

func (h *OrderHandler) GetByIdempotencyKey(c echo.Context) error {
	record, err := h.getByIdempotencyKey.Execute(c.Request().Context(), middleware.ActorFrom(c), c.Param("key"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

package echo

import (
	"context"

	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/order-capture-service/internal/application/use_cases"
	"github.com/mirola777/order-capture-service/internal/presentation/echo/handlers"
	"github.com/mirola777/order-capture-service/internal/presentation/echo/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

func ConfigureRoutes(e *echofw.Echo, container *use_cases.Container, logger *zap.Logger, gatherer prometheus.Gatherer, db pinger) {
	e.Use(middleware.TraceID)
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Recovery(logger))

	healthHandler := handlers.NewHealthHandler(db)
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echofw.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	orderHandler := handlers.NewOrderHandler(container)
	v1 := e.Group("/v1", middleware.Actor(container.Tokens))
	v1.POST("/orders/:orderId/captures", orderHandler.CapturePayments)
	v1.GET("/orders/:orderId", orderHandler.GetOrder)
	v1.GET("/idempotency/:key", orderHandler.GetByIdempotencyKey)
}

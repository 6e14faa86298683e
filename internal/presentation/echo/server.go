package echo

import (
	"context"
	"errors"
	"net/http"

	echofw "github.com/labstack/echo/v4"
	"github.com/mirola777/order-capture-service/internal/application/use_cases"
	"github.com/mirola777/order-capture-service/internal/utils/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echofw.Echo
	config *config.Config
	logger *zap.Logger
}

func NewServer(cfg *config.Config, container *use_cases.Container, logger *zap.Logger, gatherer prometheus.Gatherer, db pinger) *Server {
	e := echofw.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	ConfigureRoutes(e, container, logger, gatherer, db)

	return &Server{
		echo:   e,
		config: cfg,
		logger: logger,
	}
}

// Run serves until ctx is canceled, then drains in-flight requests within the
// configured graceful timeout.
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("port", s.config.AppPort))
		if err := s.echo.Start(":" + s.config.AppPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errC
}

package use_cases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/mirola777/order-capture-service/internal/infrastructure/auth"
	"github.com/mirola777/order-capture-service/internal/infrastructure/events"
	gormdb "github.com/mirola777/order-capture-service/internal/infrastructure/gorm"
	"github.com/mirola777/order-capture-service/internal/infrastructure/gorm/repositories"
	"github.com/mirola777/order-capture-service/internal/infrastructure/lock"
	"github.com/mirola777/order-capture-service/internal/infrastructure/metrics"
	"github.com/mirola777/order-capture-service/internal/infrastructure/processor"
	"github.com/mirola777/order-capture-service/internal/utils/config"
	logutil "github.com/mirola777/order-capture-service/internal/utils/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const simulatorMaxDelay = 200 * time.Millisecond

type Container struct {
	CaptureOrderPayments           *CaptureOrderPaymentsUseCase
	CaptureOrderPaymentsIdempotent *CaptureOrderPaymentsIdempotentUseCase
	GetOrder                       *GetOrderUseCase
	GetByIdempotencyKey            *GetByIdempotencyKeyUseCase
	CleanupIdempotencyRecords      *CleanupIdempotencyRecordsUseCase
	Tokens                         *auth.TokenCodec

	scheduler *cron.Cron
	closers   []func() error
	logger    *zap.Logger
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) (*Container, error) {
	c := &Container{logger: logger}

	publisher, err := c.newPublisher(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	locker, err := c.newLocker(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	registry := newProcessorRegistry(ctx, cfg, metrics.NewCaptureMetrics(reg), logger)

	orderRepo := repositories.NewOrderRepo(db)
	idempotencyRepo := repositories.NewIdempotencyRepo(db)
	tm := gormdb.NewTransactionManager(db)

	permissions := auth.NewPermissionChecker(cfg.EnforcePermissions)

	c.CaptureOrderPayments = NewCaptureOrderPaymentsUseCase(
		orderRepo, registry, publisher, locker, permissions, logger,
	)
	c.CaptureOrderPaymentsIdempotent = NewCaptureOrderPaymentsIdempotentUseCase(
		tm, idempotencyRepo, c.CaptureOrderPayments, permissions, cfg.IdempotencyKeyTTL, logger,
	)
	c.GetOrder = NewGetOrderUseCase(orderRepo, permissions, logger)
	c.GetByIdempotencyKey = NewGetByIdempotencyKeyUseCase(idempotencyRepo, permissions, logger)
	c.CleanupIdempotencyRecords = NewCleanupIdempotencyRecordsUseCase(idempotencyRepo, logger)
	if cfg.JWTSecret != "" {
		c.Tokens = auth.NewTokenCodec(cfg.JWTSecret)
	}

	cronLog := logutil.Cron(logger)
	c.scheduler = cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog)))
	_, err = c.scheduler.AddFunc(cfg.CleanupSchedule, func() {
		_, _ = c.CleanupIdempotencyRecords.Execute(context.Background())
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("invalid CLEANUP_SCHEDULE %q: %w", cfg.CleanupSchedule, err)
	}

	return c, nil
}

// Start runs the background jobs.
func (c *Container) Start() {
	c.scheduler.Start()
}

// Close stops the background jobs and releases external clients.
func (c *Container) Close() error {
	if c.scheduler != nil {
		<-c.scheduler.Stop().Done()
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) newPublisher(ctx context.Context, cfg *config.Config) (domain.EventPublisher, error) {
	bus := events.NewBus(c.logger)

	var transport domain.EventPublisher
	switch cfg.EventsBackend {
	case "local", "":
	case "kafka":
		k, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, k.Close)
		transport = k
	case "sqs":
		s, err := events.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.SQSQueueURL)
		if err != nil {
			return nil, err
		}
		transport = s
	default:
		return nil, fmt.Errorf("unsupported EVENTS_BACKEND %q", cfg.EventsBackend)
	}

	for _, name := range []string{domain.EventAfterOrderUpdate, domain.EventAfterOrderPaymentCapture} {
		bus.Subscribe(name, events.LogHandler(c.logger))
		if transport != nil {
			bus.Subscribe(name, transport.Emit)
		}
	}
	return bus, nil
}

func (c *Container) newLocker(cfg *config.Config) (domain.OrderLocker, error) {
	switch cfg.LockBackend {
	case "local", "":
		return lock.NewLocal(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.closers = append(c.closers, client.Close)
		return lock.NewRedis(client, cfg.OrderLockTTL, c.logger), nil
	default:
		return nil, fmt.Errorf("unsupported LOCK_BACKEND %q", cfg.LockBackend)
	}
}

func newProcessorRegistry(ctx context.Context, cfg *config.Config, m *metrics.CaptureMetrics, logger *zap.Logger) *processor.Registry {
	registry := processor.NewRegistry(processor.Instrument(processor.NewSimulator(simulatorMaxDelay), m))

	if cfg.PayPalClientID != "" {
		client, err := processor.NewPayPalClient(ctx, cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalMode)
		if err != nil {
			logger.Warn("paypal processor disabled", zap.Error(err))
		} else {
			registry.Register(processor.Instrument(processor.NewPayPal(client), m))
		}
	}

	logger.Info("payment processors registered", zap.Strings("processors", registry.Names()))
	return registry
}

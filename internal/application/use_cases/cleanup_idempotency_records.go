package use_cases

import (
	"context"

	"github.com/mirola777/order-capture-service/internal/domain"
	"go.uber.org/zap"
)

type CleanupIdempotencyRecordsUseCase struct {
	idempotencyRepo domain.IdempotencyRepository
	logger          *zap.Logger
}

func NewCleanupIdempotencyRecordsUseCase(idempotencyRepo domain.IdempotencyRepository, logger *zap.Logger) *CleanupIdempotencyRecordsUseCase {
	return &CleanupIdempotencyRecordsUseCase{
		idempotencyRepo: idempotencyRepo,
		logger:          logger,
	}
}

func (uc *CleanupIdempotencyRecordsUseCase) Execute(ctx context.Context) (int64, error) {
	cleaned, err := uc.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		uc.logger.Error("cleanup of expired idempotency records failed", zap.Error(err))
		return 0, err
	}
	if cleaned > 0 {
		uc.logger.Info("cleaned expired idempotency records", zap.Int64("count", cleaned))
	}
	return cleaned, nil
}

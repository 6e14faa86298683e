package processor

import (
	"context"
	"time"

	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/mirola777/order-capture-service/internal/infrastructure/metrics"
)

type instrumented struct {
	next    domain.PaymentMethod
	metrics *metrics.CaptureMetrics
}

// Instrument records the duration and outcome of every capture made by next.
func Instrument(next domain.PaymentMethod, m *metrics.CaptureMetrics) domain.PaymentMethod {
	return &instrumented{next: next, metrics: m}
}

func (i *instrumented) Name() string {
	return i.next.Name()
}

func (i *instrumented) CapturePayment(ctx context.Context, payment domain.Payment) (*domain.CaptureOutcome, error) {
	start := time.Now()
	outcome, err := i.next.CapturePayment(ctx, payment)
	i.metrics.Observe(i.next.Name(), outcomeLabel(outcome, err), time.Since(start))
	return outcome, err
}

func outcomeLabel(outcome *domain.CaptureOutcome, err error) string {
	switch {
	case err != nil || outcome == nil:
		return metrics.OutcomeFailed
	case outcome.Saved:
		return metrics.OutcomeCaptured
	case outcome.IsAlreadyCaptured:
		return metrics.OutcomeAlreadyCaptured
	default:
		return metrics.OutcomeFailed
	}
}

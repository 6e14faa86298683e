package processor

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/spf13/cast"
)

const SimulatorName = "simulator"

// SimulateKey is the payment metadata entry that selects a simulated outcome.
const SimulateKey = "simulate"

// Simulator is a processor without a remote gateway. Its result is chosen by
// the payment's "simulate" metadata: "decline", "already_captured", "error",
// or anything else for a successful capture.
type Simulator struct {
	maxDelay time.Duration
}

func NewSimulator(maxDelay time.Duration) *Simulator {
	return &Simulator{maxDelay: maxDelay}
}

func (s *Simulator) Name() string {
	return SimulatorName
}

func (s *Simulator) CapturePayment(ctx context.Context, payment domain.Payment) (*domain.CaptureOutcome, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	switch cast.ToString(payment.Metadata[SimulateKey]) {
	case "decline":
		return &domain.CaptureOutcome{
			Saved:        false,
			Error:        "card_declined",
			ErrorCode:    "card_declined",
			ErrorMessage: "The issuer declined the capture",
		}, nil
	case "already_captured":
		return &domain.CaptureOutcome{
			IsAlreadyCaptured: true,
			Metadata: domain.Metadata{
				"captureId": cast.ToString(payment.Metadata["captureId"]),
			},
		}, nil
	case "error":
		return nil, errors.New("simulated gateway unavailable")
	default:
		return &domain.CaptureOutcome{
			Saved: true,
			Metadata: domain.Metadata{
				"captureId":      uuid.New().String(),
				"capturedAmount": payment.Amount.StringFixed(2),
				"capturedAt":     time.Now().UTC().Format(time.RFC3339),
			},
		}, nil
	}
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.maxDelay <= 0 {
		return nil
	}
	delay := time.Duration(rand.Int63n(int64(s.maxDelay)))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

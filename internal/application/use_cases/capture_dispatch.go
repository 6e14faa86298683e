package use_cases

import (
	"context"
	"fmt"
	"slices"

	"github.com/ecodeclub/ekit/slice"
	"github.com/mirola777/order-capture-service/internal/domain"
	apperrors "github.com/mirola777/order-capture-service/internal/domain/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// eligiblePayments keeps, in order, the requested payments that can be captured.
func eligiblePayments(payments []domain.Payment, paymentIDs []string) []domain.Payment {
	return slice.FilterMap(payments, func(_ int, p domain.Payment) (domain.Payment, bool) {
		return p, slice.Contains(paymentIDs, p.ID) && p.Capturable()
	})
}

// dispatch captures every payment concurrently and waits for all of them.
// outcomes[i] belongs to payments[i].
func (uc *CaptureOrderPaymentsUseCase) dispatch(ctx context.Context, payments []domain.Payment) []domain.CaptureOutcome {
	outcomes := make([]domain.CaptureOutcome, len(payments))

	var g errgroup.Group
	for i, payment := range payments {
		g.Go(func() error {
			outcomes[i] = uc.capture(ctx, payment)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (uc *CaptureOrderPaymentsUseCase) capture(ctx context.Context, payment domain.Payment) (outcome domain.CaptureOutcome) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("payment capture panicked",
				zap.String("payment_id", payment.ID),
				zap.String("processor", payment.Name),
				zap.Any("panic", r),
			)
			outcome = domain.FailedCaptureOutcome(payment.ID, fmt.Errorf("capture panicked: %v", r))
		}
	}()

	method, err := uc.methods.Lookup(payment.Name)
	if err != nil {
		return uc.failed(payment, err)
	}

	result, err := method.CapturePayment(ctx, payment.Clone())
	if err != nil {
		return uc.failed(payment, err)
	}
	if result == nil {
		return uc.failed(payment, domain.ErrEmptyCaptureReply)
	}

	outcome = *result
	outcome.PaymentID = payment.ID
	return outcome
}

func (uc *CaptureOrderPaymentsUseCase) failed(payment domain.Payment, err error) domain.CaptureOutcome {
	uc.logger.Warn("payment capture failed",
		zap.String("payment_id", payment.ID),
		zap.String("processor", payment.Name),
		zap.Error(err),
	)
	return domain.FailedCaptureOutcome(payment.ID, err)
}

// reconcile applies outcomes to a copy of order and returns it together with
// the payments that are now captured. The input order is not modified.
func reconcile(order *domain.Order, outcomes []domain.CaptureOutcome) (*domain.Order, []domain.Payment, error) {
	updated := order.Clone()
	var captured []domain.Payment

	for _, outcome := range outcomes {
		idx := slices.IndexFunc(updated.Payments, func(p domain.Payment) bool {
			return p.ID == outcome.PaymentID
		})
		if idx < 0 {
			return nil, nil, apperrors.ErrInconsistentCaptureOutcome(outcome.PaymentID)
		}

		payment := &updated.Payments[idx]
		if outcome.Captured() {
			payment.Mode = domain.PaymentModeCaptured
			payment.Status = domain.PaymentStatusCompleted
			payment.Metadata = payment.Metadata.Merge(outcome.Metadata)
		} else {
			payment.Status = domain.PaymentStatusError
			payment.CaptureErrorCode = outcome.ErrorCode
			payment.CaptureErrorMessage = outcome.ErrorMessage
		}
		payment.Transactions = append(payment.Transactions, outcome)

		if outcome.Captured() {
			captured = append(captured, payment.Clone())
		}
	}

	return updated, captured, nil
}

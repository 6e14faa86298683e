package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mirola777/order-capture-service/internal/domain"
	"github.com/plutov/paypal/v4"
	"github.com/spf13/cast"
)

const PayPalName = "paypal"

// AuthorizationIDKey is the payment metadata entry holding the PayPal
// authorization to capture.
const AuthorizationIDKey = "authorizationId"

const issueAlreadyCaptured = "AUTHORIZATION_ALREADY_CAPTURED"

type authorizationCapturer interface {
	CaptureAuthorization(ctx context.Context, authID string, req *paypal.PaymentCaptureRequest) (*paypal.PaymentCaptureResponse, error)
}

// PayPal captures payments authorized through the PayPal REST API.
type PayPal struct {
	client authorizationCapturer
}

func NewPayPal(client authorizationCapturer) *PayPal {
	return &PayPal{client: client}
}

// NewPayPalClient opens an authenticated client. mode is "live" or "sandbox".
func NewPayPalClient(ctx context.Context, clientID, clientSecret, mode string) (*paypal.Client, error) {
	base := paypal.APIBaseSandBox
	if mode == "live" {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(clientID, clientSecret, base)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal access token: %w", err)
	}
	return client, nil
}

func (p *PayPal) Name() string {
	return PayPalName
}

func (p *PayPal) CapturePayment(ctx context.Context, payment domain.Payment) (*domain.CaptureOutcome, error) {
	authID := cast.ToString(payment.Metadata[AuthorizationIDKey])
	if authID == "" {
		return &domain.CaptureOutcome{
			Saved:        false,
			Error:        "missing_authorization",
			ErrorCode:    "missing_authorization",
			ErrorMessage: "Payment has no PayPal authorization id",
		}, nil
	}

	resp, err := p.client.CaptureAuthorization(ctx, authID, &paypal.PaymentCaptureRequest{
		Amount: &paypal.Money{
			Currency: payment.Currency,
			Value:    payment.Amount.StringFixed(2),
		},
		FinalCapture: true,
	})
	if err != nil {
		var apiErr *paypal.ErrorResponse
		if !errors.As(err, &apiErr) {
			return nil, fmt.Errorf("capture paypal authorization %s: %w", authID, err)
		}
		if hasIssue(apiErr, issueAlreadyCaptured) {
			return &domain.CaptureOutcome{IsAlreadyCaptured: true}, nil
		}
		return &domain.CaptureOutcome{
			Saved:        false,
			Error:        apiErr.Name,
			ErrorCode:    strings.ToLower(apiErr.Name),
			ErrorMessage: apiErr.Message,
		}, nil
	}

	return &domain.CaptureOutcome{
		Saved: true,
		Metadata: domain.Metadata{
			"captureId":     resp.ID,
			"captureStatus": string(resp.Status),
		},
	}, nil
}

func hasIssue(apiErr *paypal.ErrorResponse, issue string) bool {
	for _, d := range apiErr.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

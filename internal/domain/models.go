package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	PaymentModeAuthorize PaymentMode = "authorize"
	PaymentModeCaptured  PaymentMode = "captured"
	PaymentModeRefund    PaymentMode = "refund"
	PaymentModeCancel    PaymentMode = "cancel"
)

type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusError     PaymentStatus = "error"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
)

// CapturableStatuses lists the payment statuses a capture may be attempted from.
var CapturableStatuses = map[PaymentStatus]bool{
	PaymentStatusCreated:  true,
	PaymentStatusApproved: true,
	PaymentStatusError:    true,
}

const (
	WorkflowStatusNew        = "new"
	WorkflowStatusProcessing = "coreOrderWorkflow/processing"
)

type IdempotencyStatus string

const (
	IdempotencyStatusProcessing IdempotencyStatus = "PROCESSING"
	IdempotencyStatusCompleted  IdempotencyStatus = "COMPLETED"
)

// UncaughtCaptureErrorCode is recorded on a payment whose capture routine
// returned an error instead of an outcome.
const UncaughtCaptureErrorCode = "uncaught_plugin_error"

type Metadata map[string]any

// Merge returns a new bag with the keys of other layered over m.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

type Workflow struct {
	Status  string   `json:"status" gorm:"type:varchar(64);not null"`
	History []string `json:"workflow" gorm:"serializer:json;type:text"`
}

// Advance moves the workflow to status and records it in the history once.
func (w *Workflow) Advance(status string) {
	w.Status = status
	if !slices.Contains(w.History, status) {
		w.History = append(w.History, status)
	}
}

// CaptureOutcome is the result of one capture attempt. It is appended verbatim
// to the payment's transaction history.
type CaptureOutcome struct {
	PaymentID         string   `json:"paymentId"`
	Saved             bool     `json:"saved"`
	IsAlreadyCaptured bool     `json:"isAlreadyCaptured,omitempty"`
	Error             string   `json:"error,omitempty"`
	ErrorCode         string   `json:"errorCode,omitempty"`
	ErrorMessage      string   `json:"errorMessage,omitempty"`
	Metadata          Metadata `json:"metadata,omitempty"`
}

func (o CaptureOutcome) Captured() bool {
	return o.Saved || o.IsAlreadyCaptured
}

// FailedCaptureOutcome builds the outcome recorded when a capture routine fails
// without producing a result of its own.
func FailedCaptureOutcome(paymentID string, err error) CaptureOutcome {
	return CaptureOutcome{
		PaymentID:    paymentID,
		Saved:        false,
		Error:        err.Error(),
		ErrorCode:    UncaughtCaptureErrorCode,
		ErrorMessage: err.Error(),
	}
}

type Payment struct {
	ID                  string           `json:"_id"`
	Name                string           `json:"name"`
	Mode                PaymentMode      `json:"mode"`
	Status              PaymentStatus    `json:"status"`
	Amount              decimal.Decimal  `json:"amount"`
	Currency            string           `json:"currencyCode"`
	Metadata            Metadata         `json:"metadata,omitempty"`
	CaptureErrorCode    string           `json:"captureErrorCode,omitempty"`
	CaptureErrorMessage string           `json:"captureErrorMessage,omitempty"`
	Transactions        []CaptureOutcome `json:"transactions"`
}

// Capturable reports whether the payment can be sent to its processor for capture.
func (p Payment) Capturable() bool {
	return p.Mode == PaymentModeAuthorize && CapturableStatuses[p.Status]
}

// Clone returns a copy that shares no maps or slices with p.
func (p Payment) Clone() Payment {
	c := p
	if p.Metadata != nil {
		c.Metadata = Metadata{}.Merge(p.Metadata)
	}
	c.Transactions = slices.Clone(p.Transactions)
	return c
}

// MarshalJSON writes an empty transaction history as [] rather than null.
func (p Payment) MarshalJSON() ([]byte, error) {
	type payment Payment
	if p.Transactions == nil {
		p.Transactions = []CaptureOutcome{}
	}
	return json.Marshal(payment(p))
}

type Order struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	ShopID    string    `json:"shopId" gorm:"type:varchar(64);not null;index"`
	Workflow  Workflow  `json:"workflow" gorm:"embedded;embeddedPrefix:workflow_"`
	Payments  []Payment `json:"payments" gorm:"serializer:json;type:text"`
	Version   int64     `json:"-" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) Clone() *Order {
	c := *o
	c.Workflow.History = slices.Clone(o.Workflow.History)
	c.Payments = make([]Payment, len(o.Payments))
	for i, p := range o.Payments {
		c.Payments[i] = p.Clone()
	}
	return &c
}

type CaptureOrderPaymentsInput struct {
	OrderID    string   `json:"order_id" validate:"required"`
	PaymentIDs []string `json:"payment_ids" validate:"required,min=1,dive,required"`
	ShopID     string   `json:"shop_id" validate:"required"`
}

// Actor is the identity a request is performed on behalf of.
type Actor struct {
	UserID      string
	ShopIDs     []string
	Permissions []string
}

type IdempotencyRecord struct {
	Key                string            `json:"key" gorm:"primaryKey;type:varchar(64)"`
	RequestFingerprint string            `json:"request_fingerprint" gorm:"type:varchar(64);not null"`
	OrderID            string            `json:"order_id,omitempty" gorm:"type:varchar(36);index"`
	ShopID             string            `json:"shop_id,omitempty" gorm:"type:varchar(64)"`
	ResponseBody       []byte            `json:"-"`
	Status             IdempotencyStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt          time.Time         `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt          time.Time         `json:"expires_at" gorm:"index;not null"`
}

func (IdempotencyRecord) TableName() string {
	return "idempotency_records"
}

func (r IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

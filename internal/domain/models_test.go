package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowAdvance_AddsStatusOnce(t *testing.T) {
	w := Workflow{Status: WorkflowStatusNew, History: []string{WorkflowStatusNew}}

	w.Advance(WorkflowStatusProcessing)
	w.Advance(WorkflowStatusProcessing)

	assert.Equal(t, WorkflowStatusProcessing, w.Status)
	assert.Equal(t, []string{WorkflowStatusNew, WorkflowStatusProcessing}, w.History)
}

func TestMetadataMerge_OtherWinsOnCollision(t *testing.T) {
	base := Metadata{"a": 1, "b": "old"}

	merged := base.Merge(Metadata{"b": "new", "c": true})

	assert.Equal(t, Metadata{"a": 1, "b": "new", "c": true}, merged)
	assert.Equal(t, "old", base["b"])
}

func TestMetadataMerge_NilReceiver(t *testing.T) {
	var base Metadata

	merged := base.Merge(Metadata{"k": "v"})

	assert.Equal(t, Metadata{"k": "v"}, merged)
}

func TestPaymentCapturable(t *testing.T) {
	tests := []struct {
		name   string
		mode   PaymentMode
		status PaymentStatus
		want   bool
	}{
		{"authorized created", PaymentModeAuthorize, PaymentStatusCreated, true},
		{"authorized approved", PaymentModeAuthorize, PaymentStatusApproved, true},
		{"authorized error", PaymentModeAuthorize, PaymentStatusError, true},
		{"authorized completed", PaymentModeAuthorize, PaymentStatusCompleted, false},
		{"already captured", PaymentModeCaptured, PaymentStatusCompleted, false},
		{"captured mode approved", PaymentModeCaptured, PaymentStatusApproved, false},
		{"refund mode", PaymentModeRefund, PaymentStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payment{Mode: tt.mode, Status: tt.status}
			assert.Equal(t, tt.want, p.Capturable())
		})
	}
}

func TestCaptureOutcomeCaptured(t *testing.T) {
	assert.True(t, CaptureOutcome{Saved: true}.Captured())
	assert.True(t, CaptureOutcome{IsAlreadyCaptured: true}.Captured())
	assert.False(t, CaptureOutcome{}.Captured())
}

func TestFailedCaptureOutcome(t *testing.T) {
	outcome := FailedCaptureOutcome("pay-1", errors.New("gateway timeout"))

	assert.Equal(t, "pay-1", outcome.PaymentID)
	assert.False(t, outcome.Saved)
	assert.Equal(t, UncaughtCaptureErrorCode, outcome.ErrorCode)
	assert.Equal(t, "gateway timeout", outcome.ErrorMessage)
	assert.Equal(t, "gateway timeout", outcome.Error)
}

func TestOrderClone_IsDeep(t *testing.T) {
	order := &Order{
		ID:       "order-1",
		Workflow: Workflow{Status: WorkflowStatusNew, History: []string{WorkflowStatusNew}},
		Payments: []Payment{{
			ID:           "pay-1",
			Metadata:     Metadata{"k": "v"},
			Transactions: []CaptureOutcome{{PaymentID: "pay-1"}},
		}},
	}

	clone := order.Clone()
	clone.Workflow.History[0] = "changed"
	clone.Payments[0].Metadata["k"] = "changed"
	clone.Payments[0].Transactions[0].PaymentID = "changed"
	clone.Payments[0].Status = PaymentStatusCompleted

	assert.Equal(t, WorkflowStatusNew, order.Workflow.History[0])
	assert.Equal(t, "v", order.Payments[0].Metadata["k"])
	assert.Equal(t, "pay-1", order.Payments[0].Transactions[0].PaymentID)
	assert.Empty(t, order.Payments[0].Status)
}

func TestIdempotencyRecordExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, IdempotencyRecord{ExpiresAt: now.Add(-time.Hour)}.Expired(now))
	assert.True(t, IdempotencyRecord{ExpiresAt: now}.Expired(now))
	assert.False(t, IdempotencyRecord{ExpiresAt: now.Add(time.Hour)}.Expired(now))
}

func TestPaymentJSON_TransactionsAlwaysArray(t *testing.T) {
	order := &Order{ID: "order-1", Payments: []Payment{{ID: "pay-1", Mode: PaymentModeAuthorize}}}

	for name, o := range map[string]*Order{"stored": order, "cloned": order.Clone()} {
		data, err := json.Marshal(o)
		require.NoError(t, err, name)

		var decoded struct {
			Payments []map[string]json.RawMessage `json:"payments"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded), name)
		assert.JSONEq(t, `[]`, string(decoded.Payments[0]["transactions"]), name)
	}
}

func TestPaymentJSON_KeepsHistory(t *testing.T) {
	p := Payment{ID: "pay-1", Transactions: []CaptureOutcome{{PaymentID: "pay-1", Saved: true}}}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Payment
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p.Transactions, back.Transactions)
	assert.Contains(t, string(data), `"_id":"pay-1"`)
}

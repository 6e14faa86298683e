package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mirola777/order-capture-service/internal/domain"
)

// Envelope is the wire form of an event sent to an external transport.
type Envelope struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func newEnvelope(name string, payload any) Envelope {
	return Envelope{
		ID:         uuid.New().String(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// orderKey returns the id of the order an event is about, used to keep the
// events of one order together on partitioned transports.
func orderKey(payload any) string {
	switch e := payload.(type) {
	case domain.OrderUpdatedEvent:
		if e.Order != nil {
			return e.Order.ID
		}
	case domain.PaymentCapturedEvent:
		if e.Order != nil {
			return e.Order.ID
		}
	}
	return ""
}

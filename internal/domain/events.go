package domain

const (
	EventAfterOrderUpdate         = "afterOrderUpdate"
	EventAfterOrderPaymentCapture = "afterOrderPaymentCapture"
)

type OrderUpdatedEvent struct {
	Order     *Order `json:"order"`
	UpdatedBy string `json:"updatedBy"`
}

type PaymentCapturedEvent struct {
	CapturedBy string  `json:"capturedBy"`
	Order      *Order  `json:"order"`
	Payment    Payment `json:"payment"`
}

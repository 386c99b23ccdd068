package models

import "time"

// CheckoutStatus is the gateway session state as seen by this service.
type CheckoutStatus string

const (
	CheckoutOpen    CheckoutStatus = "open"
	CheckoutPaid    CheckoutStatus = "paid"
	CheckoutExpired CheckoutStatus = "expired"
)

// CheckoutSession is a hosted payment page created for one booking.
type CheckoutSession struct {
	ID             string            `json:"id"`
	URL            string            `json:"url,omitempty"`
	Status         CheckoutStatus    `json:"status"`
	PaymentStatus  string            `json:"paymentStatus"`  // raw gateway value: paid, unpaid, no_payment_required
	AmountSubtotal int64             `json:"amountSubtotal"` // minor units
	AmountTotal    int64             `json:"amountTotal"`    // minor units
	Currency       string            `json:"currency"`
	CreatedAt      time.Time         `json:"createdAt"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// PaymentDetails is the payment summary returned next to a confirmed booking.
type PaymentDetails struct {
	SessionID     string `json:"sessionId"`
	PaymentStatus string `json:"paymentStatus"`
	AmountTotal   int64  `json:"amountTotal"`
	Currency      string `json:"currency"`
}

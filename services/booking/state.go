package booking

// State is where a booking sits in the fulfillment flow. job_registered,
// job_pending, payment_failed and gateway_error end the flow.
type State string

const (
	StateCreated         State = "created"
	StateAwaitingPayment State = "awaiting_payment"
	StatePaid            State = "paid"
	StateJobRegistered   State = "job_registered"
	StateJobPending      State = "job_pending"

	StatePaymentFailed State = "payment_failed"
	StateGatewayError  State = "gateway_error"
)

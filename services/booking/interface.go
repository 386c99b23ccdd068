package booking

import (
	"context"

	"bookingbridge/models"
	"bookingbridge/services/payment"
	"bookingbridge/services/scheduling"

	"go.uber.org/zap"
)

// FulfillmentService drives a booking from checkout to job registration.
type FulfillmentService interface {
	StartCheckout(ctx context.Context, req models.BookingRequest, urls payment.RedirectURLs) (*CheckoutResult, error)
	VerifyPayment(ctx context.Context, sessionID string) (*VerificationResult, error)
	RegisterJob(ctx context.Context, booking models.ConfirmedBooking, sessionID string) *RegistrationResult
	PaymentRedirect(ctx context.Context, sessionID string) RedirectOutcome
}

// FollowUpNotifier hands a booking that could not be registered to a human.
type FollowUpNotifier interface {
	NotifyManualFollowUp(ctx context.Context, followUp models.ManualFollowUp) error
}

// VerificationStore caches paid verification results. utils.VerificationCache implements it.
type VerificationStore interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Store(ctx context.Context, key string, value any) error
}

// Options are the pipeline's configuration knobs.
type Options struct {
	AutoRegisterJobs bool
	NightHoursStart  int
	NightHoursEnd    int
}

// DefaultFulfillmentService implements FulfillmentService.
// Registrar, Notifier and Cache are optional.
type DefaultFulfillmentService struct {
	Gateway   payment.Gateway
	Registrar scheduling.Registrar
	Notifier  FollowUpNotifier
	Cache     VerificationStore
	Options   Options
	Logger    *zap.Logger
}

// CheckoutResult is returned once a hosted payment page exists.
type CheckoutResult struct {
	State   State                   `json:"state"`
	Session *models.CheckoutSession `json:"session"`
}

// VerificationResult is the outcome of checking a session after the customer returns.
type VerificationResult struct {
	State        State                    `json:"state"`
	Booking      *models.ConfirmedBooking `json:"booking,omitempty"`
	Payment      models.PaymentDetails    `json:"payment"`
	Registration *RegistrationResult      `json:"registration,omitempty"`
}

// RegistrationResult never carries an error value: a failed registration is a
// pending job that was logged for manual processing.
type RegistrationResult struct {
	State         State                   `json:"state"`
	Registration  *models.JobRegistration `json:"registration"`
	BookingLogged bool                    `json:"bookingLogged"`
	Reason        string                  `json:"reason,omitempty"`
}

// RedirectOutcome is what the legacy payment-success redirect reports to the front end.
type RedirectOutcome struct {
	Payment   string // success, pending or error
	SessionID string
	Amount    string
	Message   string
}

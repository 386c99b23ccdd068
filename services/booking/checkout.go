package booking

import (
	"context"

	"bookingbridge/models"
	"bookingbridge/services/payment"

	"go.uber.org/zap"
)

// StartCheckout validates req and opens a checkout session for it.
func (s *DefaultFulfillmentService) StartCheckout(ctx context.Context, req models.BookingRequest, urls payment.RedirectURLs) (*CheckoutResult, error) {
	req = Normalize(req)
	if err := Validate(req); err != nil {
		s.Logger.Info("booking request rejected", zap.String("email", req.Email), zap.Error(err))
		return &CheckoutResult{State: StateCreated}, err
	}

	session, err := s.Gateway.CreateCheckoutSession(ctx, req, urls)
	if err != nil {
		return &CheckoutResult{State: StateGatewayError}, newGatewayError("could not create checkout session", err)
	}

	s.Logger.Info("checkout started",
		zap.String("session_id", session.ID),
		zap.String("customer", req.FullName()),
		zap.String("service", req.ServiceType),
		zap.String("total", req.TotalCost.StringFixed(2)),
	)
	return &CheckoutResult{State: StateAwaitingPayment, Session: session}, nil
}

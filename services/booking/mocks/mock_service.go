package mocks

import (
	"context"

	"bookingbridge/models"
	"bookingbridge/services/booking"
	"bookingbridge/services/payment"

	"github.com/stretchr/testify/mock"
)

// MockFulfillmentService is a mock implementation of booking.FulfillmentService.
type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) StartCheckout(ctx context.Context, req models.BookingRequest, urls payment.RedirectURLs) (*booking.CheckoutResult, error) {
	args := m.Called(ctx, req, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CheckoutResult), args.Error(1)
}

func (m *MockFulfillmentService) VerifyPayment(ctx context.Context, sessionID string) (*booking.VerificationResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.VerificationResult), args.Error(1)
}

func (m *MockFulfillmentService) RegisterJob(ctx context.Context, b models.ConfirmedBooking, sessionID string) *booking.RegistrationResult {
	args := m.Called(ctx, b, sessionID)
	return args.Get(0).(*booking.RegistrationResult)
}

func (m *MockFulfillmentService) PaymentRedirect(ctx context.Context, sessionID string) booking.RedirectOutcome {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(booking.RedirectOutcome)
}

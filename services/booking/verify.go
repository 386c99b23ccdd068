package booking

import (
	"context"
	"errors"

	"bookingbridge/models"
	"bookingbridge/services/payment"
	"bookingbridge/utils"

	"go.uber.org/zap"
)

// VerifyPayment checks a session after the customer returns from the hosted page.
// An unpaid session yields ErrPaymentNotCompleted and no job registration call.
func (s *DefaultFulfillmentService) VerifyPayment(ctx context.Context, sessionID string) (*VerificationResult, error) {
	if cached, ok := s.cachedVerification(ctx, sessionID); ok {
		s.Logger.Debug("verification served from cache", zap.String("session_id", sessionID))
		return cached, nil
	}

	session, err := s.Gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, newNotFoundError(sessionID, err)
		}
		return &VerificationResult{State: StateGatewayError}, newGatewayError("could not retrieve checkout session", err)
	}

	result := &VerificationResult{
		Payment: models.PaymentDetails{
			SessionID:     session.ID,
			PaymentStatus: session.PaymentStatus,
			AmountTotal:   session.AmountTotal,
			Currency:      session.Currency,
		},
	}

	if session.Status != models.CheckoutPaid {
		result.State = StateAwaitingPayment
		if session.Status == models.CheckoutExpired {
			result.State = StatePaymentFailed
		}
		s.Logger.Info("payment not completed",
			zap.String("session_id", sessionID),
			zap.String("payment_status", session.PaymentStatus),
		)
		return result, newPaymentNotCompletedError(sessionID, session.PaymentStatus)
	}

	booking, err := ConfirmedFromSession(session, s.Options)
	if err != nil {
		return &VerificationResult{State: StateGatewayError}, newGatewayError("checkout session metadata is unreadable", err)
	}
	result.Booking = &booking
	result.State = StatePaid
	s.Logger.Info("payment verified",
		zap.String("session_id", sessionID),
		zap.String("client", booking.ClientName),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	if s.Options.AutoRegisterJobs && s.Registrar != nil {
		result.Registration = s.RegisterJob(ctx, booking, sessionID)
		result.State = result.Registration.State
	}

	s.storeVerification(ctx, sessionID, result)
	return result, nil
}

// PaymentRedirect answers the legacy redirect endpoint. It never registers a job.
func (s *DefaultFulfillmentService) PaymentRedirect(ctx context.Context, sessionID string) RedirectOutcome {
	if sessionID == "" {
		return RedirectOutcome{Payment: "error", Message: "missing session id"}
	}
	session, err := s.Gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.Logger.Warn("payment redirect lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return RedirectOutcome{Payment: "error", SessionID: sessionID, Message: "Payment verification failed"}
	}
	if session.Status != models.CheckoutPaid {
		return RedirectOutcome{Payment: "pending", SessionID: sessionID}
	}
	return RedirectOutcome{Payment: "success", SessionID: sessionID, Amount: utils.FormatMinorUnits(session.AmountTotal)}
}

func (s *DefaultFulfillmentService) cachedVerification(ctx context.Context, sessionID string) (*VerificationResult, bool) {
	if s.Cache == nil {
		return nil, false
	}
	var cached VerificationResult
	found, err := s.Cache.Load(ctx, sessionID, &cached)
	if err != nil {
		s.Logger.Warn("verification cache read failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &cached, true
}

func (s *DefaultFulfillmentService) storeVerification(ctx context.Context, sessionID string, result *VerificationResult) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Store(ctx, sessionID, result); err != nil {
		s.Logger.Warn("verification cache write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

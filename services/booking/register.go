package booking

import (
	"context"
	"errors"
	"time"

	"bookingbridge/models"
	"bookingbridge/services/scheduling"

	"go.uber.org/zap"
)

// RegisterJob runs the prober for a confirmed booking. Every failure, including
// rejected credentials and deadlines, degrades to a pending job logged for staff.
func (s *DefaultFulfillmentService) RegisterJob(ctx context.Context, booking models.ConfirmedBooking, sessionID string) *RegistrationResult {
	if s.Registrar == nil {
		return s.pending(ctx, booking, sessionID, &models.JobRegistration{Attempts: []models.AttemptOutcome{}}, "job registration is not configured")
	}

	reg, err := s.Registrar.Register(ctx, booking)
	if reg == nil {
		reg = &models.JobRegistration{Attempts: []models.AttemptOutcome{}}
	}

	switch {
	case errors.Is(err, scheduling.ErrAuthenticationFailed):
		return s.pending(ctx, booking, sessionID, reg, string(CodeAuthentication)+": "+err.Error())
	case err != nil:
		return s.pending(ctx, booking, sessionID, reg, err.Error())
	case !reg.Registered:
		return s.pending(ctx, booking, sessionID, reg, string(CodePartialSuccess)+": all job creation attempts failed")
	}

	return &RegistrationResult{State: StateJobRegistered, Registration: reg}
}

func (s *DefaultFulfillmentService) pending(ctx context.Context, booking models.ConfirmedBooking, sessionID string, reg *models.JobRegistration, reason string) *RegistrationResult {
	s.Logger.Warn("booking logged for manual processing",
		zap.String("session_id", sessionID),
		zap.String("reason", reason),
		zap.Any("booking", booking),
		zap.Int("attempts", len(reg.Attempts)),
	)

	if s.Notifier != nil {
		followUp := models.ManualFollowUp{
			SessionID: sessionID,
			Reason:    reason,
			Booking:   booking,
			Attempts:  reg.Attempts,
			LoggedAt:  time.Now().UTC(),
		}
		// The request may already be past its deadline; the hand-off must still happen.
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Notifier.NotifyManualFollowUp(notifyCtx, followUp); err != nil {
			s.Logger.Error("manual follow-up hand-off failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return &RegistrationResult{
		State:         StateJobPending,
		Registration:  reg,
		BookingLogged: true,
		Reason:        reason,
	}
}

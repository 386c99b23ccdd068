package models

import "time"

// ManualFollowUp is handed to operators when a paid booking could not be
// registered in the scheduling system.
type ManualFollowUp struct {
	SessionID string           `json:"sessionId,omitempty"`
	Reason    string           `json:"reason"`
	Booking   ConfirmedBooking `json:"booking"`
	Attempts  []AttemptOutcome `json:"attempts"`
	LoggedAt  time.Time        `json:"loggedAt"`
}

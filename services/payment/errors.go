package payment

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
)

var (
	// ErrGatewayUnavailable covers transport failures, timeouts and gateway-side errors.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrSessionNotFound is returned when the gateway does not know the session id.
	ErrSessionNotFound = errors.New("checkout session not found")
)

// classify maps a stripe-go error onto the package sentinels, keeping the original as context.
func classify(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.Code == stripe.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w: %s", op, ErrSessionNotFound, se.Msg)
		}
		return fmt.Errorf("%s: %w: stripe %s (status %d): %s", op, ErrGatewayUnavailable, se.Type, se.HTTPStatusCode, se.Msg)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrGatewayUnavailable, err)
}

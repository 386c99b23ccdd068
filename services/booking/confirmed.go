package booking

import (
	"time"

	"bookingbridge/models"
	"bookingbridge/services/payment"
	"bookingbridge/utils"
)

// ConfirmedFromSession rebuilds the booking from a paid session's metadata.
// Component amounts come from metadata; the total is what the gateway actually charged.
func ConfirmedFromSession(s *models.CheckoutSession, opts Options) (models.ConfirmedBooking, error) {
	md := s.Metadata
	hours, err := payment.ParseHours(md[payment.MetaServiceHours])
	if err != nil {
		return models.ConfirmedBooking{}, err
	}
	serviceCost, err := utils.ParseAmount(md[payment.MetaServiceTotal])
	if err != nil {
		return models.ConfirmedBooking{}, err
	}
	fee, err := utils.ParseAmount(md[payment.MetaBookingFee])
	if err != nil {
		return models.ConfirmedBooking{}, err
	}
	vat, err := utils.ParseAmount(md[payment.MetaVATAmount])
	if err != nil {
		return models.ConfirmedBooking{}, err
	}

	bookedAt := md[payment.MetaBookingTimestamp]
	if bookedAt == "" && !s.CreatedAt.IsZero() {
		bookedAt = s.CreatedAt.UTC().Format(time.RFC3339)
	}

	return models.ConfirmedBooking{
		ClientName:       md[payment.MetaCustomerName],
		ClientEmail:      md[payment.MetaCustomerEmail],
		ClientPhone:      md[payment.MetaCustomerPhone],
		ServiceAddress:   md[payment.MetaServiceAddress],
		ServiceType:      md[payment.MetaServiceType],
		ServiceName:      md[payment.MetaServiceName],
		ServiceDate:      md[payment.MetaServiceDate],
		ServiceHours:     hours,
		TotalHours:       len(hours),
		ServiceCost:      serviceCost.InexactFloat64(),
		BookingFee:       fee.InexactFloat64(),
		VATAmount:        vat.InexactFloat64(),
		TotalAmount:      utils.MinorUnitsToFloat(s.AmountTotal),
		HasNightHours:    HasNightHours(hours, opts.NightHoursStart, opts.NightHoursEnd),
		BookingTimestamp: bookedAt,
		BookingReference: md[payment.MetaBookingReference],
		Status:           "confirmed",
		Notes:            "Payment confirmed via Stripe session: " + s.ID,
	}, nil
}

// HasNightHours reports whether any hour falls in [start, end). The window wraps
// midnight when start > end; start == end means no night window.
func HasNightHours(hours []int, start, end int) bool {
	for _, h := range hours {
		switch {
		case start < end && h >= start && h < end:
			return true
		case start > end && (h >= start || h < end):
			return true
		}
	}
	return false
}

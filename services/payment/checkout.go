package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bookingbridge/models"
	"bookingbridge/utils"

	"github.com/stripe/stripe-go/v76"
)

// Metadata keys written on every checkout session. The gateway is the only place a
// pending booking lives, so everything needed to rebuild it goes here.
const (
	MetaCustomerName      = "customer_name"
	MetaCustomerFirstName = "customer_first_name"
	MetaCustomerSurname   = "customer_surname"
	MetaCustomerEmail     = "customer_email"
	MetaCustomerPhone     = "customer_phone"
	MetaServiceAddress    = "service_address"
	MetaServiceType       = "service_type"
	MetaServiceName       = "service_name"
	MetaServiceDate       = "service_date"
	MetaServiceHours      = "service_hours"
	MetaHoursCount        = "selected_hours_count"
	MetaServiceTotal      = "service_total"
	MetaBookingFee        = "booking_fee"
	MetaVATAmount         = "vat_amount"
	MetaTotalAmount       = "total_amount"
	MetaBookingReference  = "booking_reference"
	MetaBookingTimestamp  = "booking_timestamp"
)

// LineItem is one priced row on the hosted checkout page.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64 // minor units
}

// BuildLineItems prices the service, the booking fee and VAT in minor units.
func BuildLineItems(req models.BookingRequest) []LineItem {
	return []LineItem{
		{
			Name: req.ServiceName,
			Description: fmt.Sprintf("%s scheduled for %s at hours: %s",
				req.ServiceName, req.ServiceDate, JoinHours(req.SelectedHours, ", ")),
			UnitAmount: utils.ToMinorUnits(req.ServiceTotal),
		},
		{
			Name:        "Booking Fee",
			Description: "Service booking and processing fee",
			UnitAmount:  utils.ToMinorUnits(req.BookingFee),
		},
		{
			Name:        "VAT",
			Description: "Value Added Tax",
			UnitAmount:  utils.ToMinorUnits(req.VATAmount),
		},
	}
}

// BuildMetadata string-encodes the booking for later reconstruction.
func BuildMetadata(req models.BookingRequest, reference string, at time.Time) map[string]string {
	return map[string]string{
		MetaCustomerName:      req.FullName(),
		MetaCustomerFirstName: req.CustomerName,
		MetaCustomerSurname:   req.CustomerSurname,
		MetaCustomerEmail:     req.Email,
		MetaCustomerPhone:     req.Phone,
		MetaServiceAddress:    req.Address,
		MetaServiceType:       req.ServiceType,
		MetaServiceName:       req.ServiceName,
		MetaServiceDate:       req.ServiceDate,
		MetaServiceHours:      JoinHours(req.SelectedHours, ","),
		MetaHoursCount:        strconv.Itoa(len(req.SelectedHours)),
		MetaServiceTotal:      utils.FormatAmount(req.ServiceTotal),
		MetaBookingFee:        utils.FormatAmount(req.BookingFee),
		MetaVATAmount:         utils.FormatAmount(req.VATAmount),
		MetaTotalAmount:       utils.FormatAmount(req.TotalCost),
		MetaBookingReference:  reference,
		MetaBookingTimestamp:  at.UTC().Format(time.RFC3339),
	}
}

// JoinHours renders hour slots with sep.
func JoinHours(hours []int, sep string) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, sep)
}

// ParseHours reverses JoinHours(hours, ","). Blank input yields an empty slice.
func ParseHours(s string) ([]int, error) {
	hours := []int{}
	if strings.TrimSpace(s) == "" {
		return hours, nil
	}
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid hour %q: %w", part, err)
		}
		hours = append(hours, h)
	}
	return hours, nil
}

func toSession(s *stripe.CheckoutSession) *models.CheckoutSession {
	out := &models.CheckoutSession{
		ID:             s.ID,
		URL:            s.URL,
		Status:         sessionStatus(s),
		PaymentStatus:  string(s.PaymentStatus),
		AmountSubtotal: s.AmountSubtotal,
		AmountTotal:    s.AmountTotal,
		Currency:       string(s.Currency),
		Metadata:       s.Metadata,
	}
	if s.Created > 0 {
		out.CreatedAt = time.Unix(s.Created, 0).UTC()
	}
	return out
}

func sessionStatus(s *stripe.CheckoutSession) models.CheckoutStatus {
	switch {
	case s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return models.CheckoutPaid
	case s.Status == stripe.CheckoutSessionStatusExpired:
		return models.CheckoutExpired
	default:
		return models.CheckoutOpen
	}
}

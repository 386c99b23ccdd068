package models

import "github.com/shopspring/decimal"

// BookingRequest is the booking form as submitted by the front end.
// Monetary fields are decimal currency units and accept JSON numbers or strings.
type BookingRequest struct {
	CustomerName    string          `json:"name" binding:"required"`
	CustomerSurname string          `json:"surname" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	Phone           string          `json:"whatsapp" binding:"required"`
	Address         string          `json:"address" binding:"required"`
	ServiceType     string          `json:"service" binding:"required"`
	ServiceName     string          `json:"serviceName" binding:"required"`
	ServiceDate     string          `json:"serviceDate" binding:"required"` // YYYY-MM-DD
	SelectedHours   []int           `json:"selectedHours" binding:"required,min=1,dive,min=0,max=23"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	VATAmount       decimal.Decimal `json:"vatAmount"`
	BookingFee      decimal.Decimal `json:"bookingFee"`
	ServiceTotal    decimal.Decimal `json:"serviceTotal"`
}

// FullName joins first name and surname the way it is shown to staff.
func (r BookingRequest) FullName() string {
	switch {
	case r.CustomerSurname == "":
		return r.CustomerName
	case r.CustomerName == "":
		return r.CustomerSurname
	}
	return r.CustomerName + " " + r.CustomerSurname
}

// ConfirmedBooking is rebuilt from a paid checkout session. It is never stored.
type ConfirmedBooking struct {
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	ClientPhone      string  `json:"client_phone"`
	ServiceAddress   string  `json:"service_address"`
	ServiceType      string  `json:"service_type"`
	ServiceName      string  `json:"service_name,omitempty"`
	ServiceDate      string  `json:"service_date"`
	ServiceHours     []int   `json:"service_hours"`
	TotalHours       int     `json:"total_hours"`
	ServiceCost      float64 `json:"service_cost"`
	BookingFee       float64 `json:"booking_fee"`
	VATAmount        float64 `json:"vat_amount"`
	TotalAmount      float64 `json:"total_amount"`
	HasNightHours    bool    `json:"has_night_hours"`
	BookingTimestamp string  `json:"booking_timestamp"` // RFC3339
	BookingReference string  `json:"booking_reference,omitempty"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes,omitempty"`
}

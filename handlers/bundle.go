package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Payment endpoints
	CreateCheckoutSession gin.HandlerFunc
	VerifyPayment         gin.HandlerFunc
	PaymentSuccess        gin.HandlerFunc

	// Scheduling endpoints
	RegisterJob gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler into the bundle.
func NewHandlerBundle(bh *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateCheckoutSession: bh.CreateCheckoutSession,
		VerifyPayment:         bh.VerifyPayment,
		PaymentSuccess:        bh.PaymentSuccess,
		RegisterJob:           bh.RegisterJob,
		Health:                HealthHandler,
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bookingbridge/models"
	"bookingbridge/services/booking"
	"bookingbridge/services/payment"
	"bookingbridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the fulfillment pipeline over HTTP.
type BookingHandler struct {
	Service       booking.FulfillmentService
	PublicBaseURL string
}

// NewBookingHandler creates a BookingHandler. An empty publicBaseURL means redirect
// URLs are derived from each request.
func NewBookingHandler(svc booking.FulfillmentService, publicBaseURL string) *BookingHandler {
	return &BookingHandler{Service: svc, PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// CreateCheckoutSession handles POST /api/create-checkout-session.
func (h *BookingHandler) CreateCheckoutSession(c *gin.Context) {
	logger := getLogger(c)

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking data", err.Error())
		return
	}

	res, err := h.Service.StartCheckout(c.Request.Context(), req, payment.RedirectURLsFor(h.baseURL(c)))
	if err != nil {
		status, message := statusFor(err)
		logger.Warn("checkout failed", zap.Error(err))
		utils.JSONError(c, status, message, details(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sessionId":   res.Session.ID,
		"checkoutUrl": res.Session.URL,
		"message":     "Checkout session created successfully",
	})
}

// VerifyPayment handles POST /api/verify-payment.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	logger := getLogger(c)

	var body struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "sessionId is required"})
		return
	}

	res, err := h.Service.VerifyPayment(c.Request.Context(), body.SessionID)
	switch {
	case errors.Is(err, booking.ErrPaymentNotCompleted):
		var paymentStatus string
		if res != nil {
			paymentStatus = res.Payment.PaymentStatus
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success":       false,
			"message":       "Payment not completed",
			"paymentStatus": paymentStatus,
		})
		return
	case err != nil:
		status, message := statusFor(err)
		logger.Warn("payment verification failed", zap.String("session_id", body.SessionID), zap.Error(err))
		c.JSON(status, gin.H{"success": false, "message": message, "error": details(err)})
		return
	}

	payload := gin.H{
		"success":        true,
		"message":        "Payment verified successfully",
		"bookingData":    res.Booking,
		"paymentDetails": res.Payment,
	}
	if res.Registration != nil {
		payload["jobRegistration"] = registrationPayload(res.Registration, *res.Booking)
	}
	c.JSON(http.StatusOK, payload)
}

// PaymentSuccess handles the legacy GET /payment-success redirect.
func (h *BookingHandler) PaymentSuccess(c *gin.Context) {
	out := h.Service.PaymentRedirect(c.Request.Context(), c.Query("session_id"))

	var location string
	switch out.Payment {
	case "success":
		location = fmt.Sprintf("/?payment=success&session=%s&amount=%s", url.QueryEscape(out.SessionID), url.QueryEscape(out.Amount))
	case "pending":
		location = "/?payment=pending&session=" + url.QueryEscape(out.SessionID)
	default:
		location = "/?payment=error&message=" + url.QueryEscape(out.Message)
	}
	c.Redirect(http.StatusFound, location)
}

// RegisterJob handles POST /api/connecteam-booking. A failed registration is still
// answered with 200 and booking_logged.
func (h *BookingHandler) RegisterJob(c *gin.Context) {
	var b models.ConfirmedBooking
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking data", err.Error())
		return
	}
	b.TotalHours = len(b.ServiceHours)

	res := h.Service.RegisterJob(c.Request.Context(), b, "")
	c.JSON(http.StatusOK, registrationPayload(res, b))
}

func registrationPayload(res *booking.RegistrationResult, b models.ConfirmedBooking) gin.H {
	reg := res.Registration
	if res.State == booking.StateJobRegistered {
		return gin.H{
			"success":    true,
			"message":    "Job created successfully in Connecteam",
			"method":     reg.Method,
			"endpoint":   reg.Endpoint,
			"status":     reg.Status,
			"jobId":      reg.JobID,
			"jobDetails": reg.JobDetails,
			"data":       reg.Data,
		}
	}
	payload := gin.H{
		"success":        false,
		"message":        "Booking logged for manual processing",
		"booking_logged": res.BookingLogged,
		"attempts":       reg.Attempts,
		"bookingData":    b,
	}
	if res.Reason != "" {
		payload["error"] = res.Reason
	}
	return payload
}

func statusFor(err error) (int, string) {
	switch booking.CodeOf(err) {
	case booking.CodeValidation:
		return http.StatusBadRequest, "Invalid booking data"
	case booking.CodeNotFound:
		return http.StatusNotFound, "Checkout session not found"
	case booking.CodeGatewayUnavailable:
		return http.StatusBadGateway, "Payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// details exposes validation problems to the caller; upstream errors stay in the logs.
func details(err error) string {
	var be *booking.BookingError
	if errors.As(err, &be) && be.Code == booking.CodeValidation && be.Err != nil {
		return be.Err.Error()
	}
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

func (h *BookingHandler) baseURL(c *gin.Context) string {
	if h.PublicBaseURL != "" {
		return h.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

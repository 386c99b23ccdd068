package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookingbridge/models"
	"bookingbridge/services/booking"
	"bookingbridge/services/booking/mocks"
	"bookingbridge/services/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(h *BookingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hb := NewHandlerBundle(h)
	r.POST("/api/create-checkout-session", hb.CreateCheckoutSession)
	r.POST("/api/verify-payment", hb.VerifyPayment)
	r.GET("/payment-success", hb.PaymentSuccess)
	r.POST("/api/connecteam-booking", hb.RegisterJob)
	r.GET("/health", hb.Health)
	return r
}

func doJSON(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

var bookingForm = map[string]any{
	"name":          "Ada",
	"surname":       "Lovelace",
	"email":         "ada@example.com",
	"whatsapp":      "+447700900000",
	"address":       "1 Analytical Way",
	"service":       "deep-clean",
	"serviceName":   "Deep Clean",
	"serviceDate":   "2026-11-02",
	"selectedHours": []int{9, 10},
	"serviceTotal":  100,
	"bookingFee":    50,
	"vatAmount":     "20.00",
	"totalCost":     170,
}

func TestCreateCheckoutSession(t *testing.T) {
	svc := new(mocks.MockFulfillmentService)
	r := setupTestRouter(NewBookingHandler(svc, "https://book.example/"))

	svc.On("StartCheckout", mock.Anything, mock.MatchedBy(func(req models.BookingRequest) bool {
		return req.VATAmount.StringFixed(2) == "20.00" && req.FullName() == "Ada Lovelace"
	}), payment.RedirectURLsFor("https://book.example")).
		Return(&booking.CheckoutResult{
			State:   booking.StateAwaitingPayment,
			Session: &models.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"},
		}, nil)

	rec, body := doJSON(r, http.MethodPost, "/api/create-checkout-session", bookingForm)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "cs_1", body["sessionId"])
	assert.Equal(t, "https://checkout.example/cs_1", body["checkoutUrl"])
	svc.AssertExpectations(t)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", booking.NewValidationError(errors.New("totalCost mismatch")), http.StatusBadRequest},
		{"gateway", &booking.BookingError{Code: booking.CodeGatewayUnavailable, Message: "could not create checkout session"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockFulfillmentService)
			svc.On("StartCheckout", mock.Anything, mock.Anything, mock.Anything).Return(&booking.CheckoutResult{}, tt.err)
			r := setupTestRouter(NewBookingHandler(svc, ""))

			rec, body := doJSON(r, http.MethodPost, "/api/create-checkout-session", bookingForm)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}

	svc := new(mocks.MockFulfillmentService)
	r := setupTestRouter(NewBookingHandler(svc, ""))
	rec, _ := doJSON(r, http.MethodPost, "/api/create-checkout-session", map[string]any{"name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "StartCheckout", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_DerivesBaseURL(t *testing.T) {
	svc := new(mocks.MockFulfillmentService)
	svc.On("StartCheckout", mock.Anything, mock.Anything, payment.RedirectURLsFor("https://example.com")).
		Return(&booking.CheckoutResult{Session: &models.CheckoutSession{ID: "cs_2"}}, nil)
	r := setupTestRouter(NewBookingHandler(svc, ""))

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(bookingForm)
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/create-checkout-session", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestVerifyPayment(t *testing.T) {
	confirmed := &models.ConfirmedBooking{ClientName: "Ada Lovelace", ServiceHours: []int{9, 10}, TotalHours: 2, TotalAmount: 170}
	details := models.PaymentDetails{SessionID: "cs_1", PaymentStatus: "paid", AmountTotal: 17000, Currency: "gbp"}

	t.Run("paid and registered", func(t *testing.T) {
		svc := new(mocks.MockFulfillmentService)
		svc.On("VerifyPayment", mock.Anything, "cs_1").Return(&booking.VerificationResult{
			State:   booking.StateJobRegistered,
			Booking: confirmed,
			Payment: details,
			Registration: &booking.RegistrationResult{
				State:        booking.StateJobRegistered,
				Registration: &models.JobRegistration{Registered: true, JobID: "job-1", Status: 201},
			},
		}, nil)
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec, body := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{"sessionId": "cs_1"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, 170.0, body["bookingData"].(map[string]any)["total_amount"])
		assert.Equal(t, 17000.0, body["paymentDetails"].(map[string]any)["amountTotal"])
		assert.Equal(t, "job-1", body["jobRegistration"].(map[string]any)["jobId"])
	})

	t.Run("paid but job pending", func(t *testing.T) {
		svc := new(mocks.MockFulfillmentService)
		svc.On("VerifyPayment", mock.Anything, "cs_1").Return(&booking.VerificationResult{
			State:   booking.StateJobPending,
			Booking: confirmed,
			Payment: details,
			Registration: &booking.RegistrationResult{
				State:         booking.StateJobPending,
				BookingLogged: true,
				Registration:  &models.JobRegistration{Attempts: make([]models.AttemptOutcome, 4)},
				Reason:        "partial_success: all job creation attempts failed",
			},
		}, nil)
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec, body := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{"sessionId": "cs_1"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		reg := body["jobRegistration"].(map[string]any)
		assert.Equal(t, false, reg["success"])
		assert.Equal(t, true, reg["booking_logged"])
		assert.Len(t, reg["attempts"], 4)
	})

	t.Run("unpaid", func(t *testing.T) {
		svc := new(mocks.MockFulfillmentService)
		svc.On("VerifyPayment", mock.Anything, "cs_1").Return(&booking.VerificationResult{
			State:   booking.StateAwaitingPayment,
			Payment: models.PaymentDetails{PaymentStatus: "unpaid"},
		}, &booking.BookingError{Code: booking.CodePaymentNotCompleted})
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec, body := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{"sessionId": "cs_1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "unpaid", body["paymentStatus"])
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := new(mocks.MockFulfillmentService)
		svc.On("VerifyPayment", mock.Anything, "cs_x").Return(nil, &booking.BookingError{Code: booking.CodeNotFound})
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec, _ := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{"sessionId": "cs_x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing session id", func(t *testing.T) {
		svc := new(mocks.MockFulfillmentService)
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec, _ := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
	})
}

func TestPaymentSuccessRedirect(t *testing.T) {
	tests := []struct {
		outcome  booking.RedirectOutcome
		location string
	}{
		{booking.RedirectOutcome{Payment: "success", SessionID: "cs_1", Amount: "170"}, "/?payment=success&session=cs_1&amount=170"},
		{booking.RedirectOutcome{Payment: "pending", SessionID: "cs_1"}, "/?payment=pending&session=cs_1"},
		{booking.RedirectOutcome{Payment: "error", Message: "Payment verification failed"}, "/?payment=error&message=Payment+verification+failed"},
	}
	for _, tt := range tests {
		svc := new(mocks.MockFulfillmentService)
		svc.On("PaymentRedirect", mock.Anything, "cs_1").Return(tt.outcome)
		r := setupTestRouter(NewBookingHandler(svc, ""))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment-success?session_id=cs_1", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, tt.location, rec.Header().Get("Location"))
	}
}

func TestRegisterJob_AlwaysAccepted(t *testing.T) {
	svc := new(mocks.MockFulfillmentService)
	svc.On("RegisterJob", mock.Anything, mock.MatchedBy(func(b models.ConfirmedBooking) bool { return b.TotalHours == 2 }), "").
		Return(&booking.RegistrationResult{
			State:         booking.StateJobPending,
			BookingLogged: true,
			Registration:  &models.JobRegistration{Attempts: []models.AttemptOutcome{}},
			Reason:        "authentication_failed: scheduling api authentication failed: status 401",
		})
	r := setupTestRouter(NewBookingHandler(svc, ""))

	rec, body := doJSON(r, http.MethodPost, "/api/connecteam-booking", models.ConfirmedBooking{ClientName: "Ada Lovelace", ServiceHours: []int{9, 10}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["booking_logged"])
	assert.Contains(t, body["error"], "authentication_failed")
	assert.Equal(t, "Ada Lovelace", body["bookingData"].(map[string]any)["client_name"])
}

func TestHealthHandler(t *testing.T) {
	r := setupTestRouter(NewBookingHandler(new(mocks.MockFulfillmentService), ""))
	rec, body := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

package payment

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookingbridge/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// --- Interfaces ---

// Gateway creates and retrieves hosted checkout sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req models.BookingRequest, urls RedirectURLs) (*models.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
}

// sessionAPI is the subset of the stripe checkout session client used here.
type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// RedirectURLs are where the hosted page sends the customer afterwards.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// RedirectURLsFor builds the default front-end return URLs for baseURL.
// {CHECKOUT_SESSION_ID} is substituted by the gateway.
func RedirectURLsFor(baseURL string) RedirectURLs {
	base := strings.TrimRight(baseURL, "/")
	return RedirectURLs{
		Success: base + "/?session_id={CHECKOUT_SESSION_ID}",
		Cancel:  base + "/?cancelled=true",
	}
}

// Config configures the Stripe-backed gateway.
type Config struct {
	SecretKey string
	APIURL    string // optional override of the Stripe API base URL
	Currency  string
	Timeout   time.Duration
}

// --- Gateway Implementation ---

// StripeGateway talks to Stripe Checkout.
type StripeGateway struct {
	sessions sessionAPI
	currency string
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
	newRef   func() string
}

// --- NewStripeGateway Constructor ---
func NewStripeGateway(cfg Config, logger *zap.Logger) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     logger.Sugar(),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	return newGateway(&session.Client{B: backend, Key: cfg.SecretKey}, cfg, logger)
}

func newGateway(api sessionAPI, cfg Config, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		sessions: api,
		currency: strings.ToLower(cfg.Currency),
		timeout:  cfg.Timeout,
		logger:   logger,
		now:      time.Now,
		newRef:   func() string { return uuid.New().String() },
	}
}

// CreateCheckoutSession opens a hosted payment page for req. The currency is fixed on
// the session and on every line item so the page offers no currency selector.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req models.BookingRequest, urls RedirectURLs) (*models.CheckoutSession, error) {
	ctx, cancel := g.withDeadline(ctx)
	defer cancel()

	reference := g.newRef()
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Currency:           stripe.String(g.currency),
		SuccessURL:         stripe.String(urls.Success),
		CancelURL:          stripe.String(urls.Cancel),
		CustomerEmail:      stripe.String(req.Email),
	}
	for _, item := range BuildLineItems(req) {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		})
	}
	for k, v := range BuildMetadata(req, reference, g.now()) {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		g.logger.Error("checkout session creation failed", zap.String("reference", reference), zap.Error(err))
		return nil, classify("create checkout session", err)
	}

	g.logger.Info("checkout session created",
		zap.String("session_id", s.ID),
		zap.String("reference", reference),
		zap.Int64("amount_total", s.AmountTotal),
	)
	return toSession(s), nil
}

// RetrieveSession fetches a previously created session.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	ctx, cancel := g.withDeadline(ctx)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(sessionID, params)
	if err != nil {
		g.logger.Warn("checkout session retrieval failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, classify("retrieve checkout session", err)
	}

	g.logger.Debug("checkout session retrieved",
		zap.String("session_id", s.ID),
		zap.String("payment_status", string(s.PaymentStatus)),
	)
	return toSession(s), nil
}

func (g *StripeGateway) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

package booking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bookingbridge/models"
	"bookingbridge/services/payment"

	"go.uber.org/zap"
)

// fakeGateway prices sessions with the real line item and metadata builders and
// keeps them in memory.
type fakeGateway struct {
	mu        sync.Mutex
	sessions  map[string]*models.CheckoutSession
	createErr error
	getErr    error
	gets      int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*models.CheckoutSession{}}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req models.BookingRequest, urls payment.RedirectURLs) (*models.CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	var total int64
	for _, item := range payment.BuildLineItems(req) {
		total += item.UnitAmount
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	s := &models.CheckoutSession{
		ID:             "cs_fake_1",
		URL:            "https://checkout.example/cs_fake_1",
		Status:         models.CheckoutOpen,
		PaymentStatus:  "unpaid",
		AmountSubtotal: total,
		AmountTotal:    total,
		Currency:       "gbp",
		CreatedAt:      time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Metadata:       payment.BuildMetadata(req, "ref-1", time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)),
	}
	g.sessions[s.ID] = s
	return s, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, id string) (*models.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gets++
	if g.getErr != nil {
		return nil, g.getErr
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (g *fakeGateway) markPaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id].Status = models.CheckoutPaid
	g.sessions[id].PaymentStatus = "paid"
}

type fakeRegistrar struct {
	calls int
	reg   *models.JobRegistration
	err   error
}

func (r *fakeRegistrar) Register(_ context.Context, _ models.ConfirmedBooking) (*models.JobRegistration, error) {
	r.calls++
	return r.reg, r.err
}

type fakeNotifier struct {
	followUps []models.ManualFollowUp
}

func (n *fakeNotifier) NotifyManualFollowUp(_ context.Context, f models.ManualFollowUp) error {
	n.followUps = append(n.followUps, f)
	return nil
}

type memStore struct {
	data map[string][]byte
}

func (m *memStore) Load(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memStore) Store(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func newTestService(g *fakeGateway, r *fakeRegistrar) (*DefaultFulfillmentService, *fakeNotifier) {
	n := &fakeNotifier{}
	return &DefaultFulfillmentService{
		Gateway:   g,
		Registrar: r,
		Notifier:  n,
		Options:   Options{AutoRegisterJobs: true, NightHoursStart: 22, NightHoursEnd: 6},
		Logger:    zap.NewNop(),
	}, n
}

package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"reserva/models"
	"reserva/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// --- fakes ---

type sentMessage struct {
	phone string
	text  string
}

type fakeGateway struct {
	mu       sync.Mutex
	err      error
	failures int // fail this many calls, then succeed
	sent     []sentMessage
	media    []sentMessage
}

func (g *fakeGateway) SendText(ctx context.Context, phone, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	if g.failures > 0 {
		g.failures--
		return errors.New("gateway unavailable")
	}
	g.sent = append(g.sent, sentMessage{phone, text})
	return nil
}

func (g *fakeGateway) SendMedia(ctx context.Context, phone, mediaURL, caption string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.media = append(g.media, sentMessage{phone, caption})
	return nil
}

func (g *fakeGateway) sentCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

type fakeQueue struct {
	mu    sync.Mutex
	items []models.OutboundQueueItem
}

func (q *fakeQueue) Insert(item *models.OutboundQueueItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	item.CreatedAt = time.Now()
	q.items = append(q.items, *item)
	return nil
}

func (q *fakeQueue) FetchPending(limit int) ([]models.OutboundQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []models.OutboundQueueItem
	for _, it := range q.items {
		if it.Status == models.QueuePending {
			out = append(out, it)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (q *fakeQueue) MarkSent(id string) error {
	return q.update(id, func(it *models.OutboundQueueItem) {
		it.Status = models.QueueSent
	})
}

func (q *fakeQueue) MarkFailure(id string, attempts int, lastError string, terminal bool) error {
	return q.update(id, func(it *models.OutboundQueueItem) {
		it.Attempts = attempts
		it.LastError = lastError
		if terminal {
			it.Status = models.QueueFailed
		}
	})
}

func (q *fakeQueue) ResetForRetry(id string) error {
	return q.update(id, func(it *models.OutboundQueueItem) {
		it.Status = models.QueuePending
		it.Attempts = 0
	})
}

func (q *fakeQueue) ListByStatus(status models.QueueStatus, limit int) ([]models.OutboundQueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []models.OutboundQueueItem
	for _, it := range q.items {
		if it.Status == status {
			out = append(out, it)
		}
	}
	return out, nil
}

func (q *fakeQueue) update(id string, fn func(*models.OutboundQueueItem)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.items {
		if q.items[i].ID == id {
			fn(&q.items[i])
			return nil
		}
	}
	return errors.New("queue item not found")
}

func (q *fakeQueue) byStatus(status models.QueueStatus) []models.OutboundQueueItem {
	out, _ := q.ListByStatus(status, 0)
	return out
}

type fakeIdem struct {
	mu      sync.Mutex
	records map[string]models.IdempotencyStatus
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{records: make(map[string]models.IdempotencyStatus)}
}

func (f *fakeIdem) Get(key string) (*models.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	return &models.IdempotencyRecord{Key: key, Status: status}, nil
}

func (f *fakeIdem) PutPending(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[key]; !ok {
		f.records[key] = models.IdempotencyPending
	}
	return nil
}

func (f *fakeIdem) MarkSent(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[key] = models.IdempotencySent
	return nil
}

type fakeBookings struct {
	mu       sync.Mutex
	byID     map[string]*models.Booking
	statuses map[string]models.WhatsappStatus
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		byID:     make(map[string]*models.Booking),
		statuses: make(map[string]models.WhatsappStatus),
	}
}

func (f *fakeBookings) GetByID(id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}
func (f *fakeBookings) GetByCancelHash(hash string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookings) ListByProviderDay(providerID, dateKey string) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) SetWhatsappStatus(id string, status models.WhatsappStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeBookings) whatsappStatus(id string) models.WhatsappStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.statuses[id]; ok {
		return s
	}
	return models.WhatsappPending
}

type fakeCustomers struct {
	byID      map[string]*models.Customer
	all       []models.Customer
	optIn     []models.Customer
	birthdays []models.Customer
}

func (f *fakeCustomers) GetByID(id string) (*models.Customer, error) { return f.byID[id], nil }
func (f *fakeCustomers) ListAll(limit int) ([]models.Customer, error) {
	if limit > 0 && limit < len(f.all) {
		return f.all[:limit], nil
	}
	return f.all, nil
}
func (f *fakeCustomers) ListMarketingOptIn(limit int) ([]models.Customer, error) {
	return f.optIn, nil
}
func (f *fakeCustomers) ListBirthdays(monthDay string, limit int) ([]models.Customer, error) {
	return f.birthdays, nil
}

type fakeProviders struct{}

func (fakeProviders) GetByID(id string) (*models.Provider, error) {
	return &models.Provider{ID: id, Name: "Ana", Active: true}, nil
}
func (fakeProviders) ListActive() ([]models.Provider, error) { return nil, nil }

type fakeServices struct{}

func (fakeServices) GetService(id string) (*models.ServiceType, error) {
	return &models.ServiceType{ID: id, Label: "Corte", Active: true}, nil
}
func (fakeServices) ListServices() ([]models.ServiceType, error) { return nil, nil }

// --- harness ---

type notifyFixture struct {
	svc      *DefaultNotificationService
	gateway  *fakeGateway
	queue    *fakeQueue
	idem     *fakeIdem
	bookings *fakeBookings
}

func newNotifyFixture(t *testing.T) *notifyFixture {
	t.Helper()
	gateway := &fakeGateway{}
	queue := &fakeQueue{}
	idem := newFakeIdem()
	bookings := newFakeBookings()

	svc := &DefaultNotificationService{
		Gateway:        gateway,
		Queue:          queue,
		Idem:           idem,
		Bookings:       bookings,
		Customers:      &fakeCustomers{byID: map[string]*models.Customer{}},
		Providers:      fakeProviders{},
		Catalog:        fakeServices{},
		Metrics:        utils.NewMetricsFor("test", prometheus.NewRegistry()),
		Logger:         zap.NewNop(),
		ShopName:       "Reserva",
		CancelLinkBase: "https://reserva.app/cancelar/",
	}
	return &notifyFixture{svc: svc, gateway: gateway, queue: queue, idem: idem, bookings: bookings}
}

func testBooking(id string) *models.Booking {
	return &models.Booking{
		ID:         id,
		CustomerID: "c1",
		ProviderID: "p1",
		ServiceID:  "corte",
		SlotStart:  time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		Status:     models.StatusBooked,
	}
}

func testCustomer() *models.Customer {
	return &models.Customer{
		ID: "c1",
		Identity: models.CustomerIdentity{
			FirstName: "Maria",
			Phone:     "+5511987654321",
		},
	}
}

// --- tests ---

func TestSendBookingConfirmation(t *testing.T) {
	fx := newNotifyFixture(t)
	booking := testBooking("b1")

	err := fx.svc.SendBookingConfirmation(context.Background(), booking, testCustomer(), "raw-code")
	if err != nil {
		t.Fatalf("SendBookingConfirmation failed: %v", err)
	}

	if fx.gateway.sentCount() != 1 {
		t.Fatalf("gateway calls = %d, want 1", fx.gateway.sentCount())
	}
	msg := fx.gateway.sent[0]
	if msg.phone != "5511987654321" {
		t.Errorf("gateway phone = %q, want bare digits", msg.phone)
	}
	if !strings.Contains(msg.text, "https://reserva.app/cancelar/raw-code") {
		t.Errorf("confirmation must carry the cancel link, got %q", msg.text)
	}
	if !strings.Contains(msg.text, "Maria") {
		t.Errorf("confirmation must greet by first name, got %q", msg.text)
	}

	if fx.bookings.whatsappStatus("b1") != models.WhatsappSent {
		t.Error("delivered confirmation must flip whatsapp status to sent")
	}
	if len(fx.queue.byStatus(models.QueuePending)) != 0 {
		t.Error("nothing should be queued on successful delivery")
	}
}

func TestConfirmationQueuedOnGatewayFailure(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.gateway.err = errors.New("gateway down")
	booking := testBooking("b1")

	err := fx.svc.SendBookingConfirmation(context.Background(), booking, testCustomer(), "raw-code")
	if err != nil {
		t.Fatalf("queued delivery must not surface an error, got %v", err)
	}

	pending := fx.queue.byStatus(models.QueuePending)
	if len(pending) != 1 {
		t.Fatalf("pending queue items = %d, want 1", len(pending))
	}
	item := pending[0]
	if item.MessageType != KindConfirmation || item.BookingID != "b1" || item.Attempts != 0 {
		t.Errorf("unexpected queue item %+v", item)
	}

	// The message never went out, so the booking flag must stay pending.
	if fx.bookings.whatsappStatus("b1") != models.WhatsappPending {
		t.Error("whatsapp status must not be sent for a queued message")
	}
}

func TestDeliveryDeduplication(t *testing.T) {
	fx := newNotifyFixture(t)
	booking := testBooking("b1")
	customer := testCustomer()

	if err := fx.svc.SendBookingConfirmation(context.Background(), booking, customer, "raw-code"); err != nil {
		t.Fatal(err)
	}
	if err := fx.svc.SendBookingConfirmation(context.Background(), booking, customer, "raw-code"); err != nil {
		t.Fatal(err)
	}

	if fx.gateway.sentCount() != 1 {
		t.Errorf("identical message must hit the gateway once, got %d calls", fx.gateway.sentCount())
	}
}

func TestSendReminderSkipsFinishedBookings(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.Customers = &fakeCustomers{byID: map[string]*models.Customer{"c1": testCustomer()}}

	for _, status := range []models.BookingStatus{models.StatusCancelled, models.StatusCompleted, models.StatusNoShow} {
		booking := testBooking("b-" + string(status))
		booking.Status = status
		fx.bookings.byID[booking.ID] = booking

		if err := fx.svc.SendReminderForBooking(context.Background(), booking.ID); err != nil {
			t.Fatalf("reminder for %s booking errored: %v", status, err)
		}
	}
	if fx.gateway.sentCount() != 0 {
		t.Errorf("finished bookings must not trigger reminders, got %d sends", fx.gateway.sentCount())
	}

	// An unknown booking id is also silently skipped.
	if err := fx.svc.SendReminderForBooking(context.Background(), "ghost"); err != nil {
		t.Errorf("unknown booking must be a no-op, got %v", err)
	}

	active := testBooking("b-live")
	fx.bookings.byID["b-live"] = active
	if err := fx.svc.SendReminderForBooking(context.Background(), "b-live"); err != nil {
		t.Fatal(err)
	}
	if fx.gateway.sentCount() != 1 {
		t.Errorf("active booking must get its reminder, got %d sends", fx.gateway.sentCount())
	}
}

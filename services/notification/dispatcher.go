package notification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	bookingRepo "reserva/database/repository/booking"
	customerRepo "reserva/database/repository/customer"
	idemRepo "reserva/database/repository/idempotency"
	providerRepo "reserva/database/repository/provider"
	queueRepo "reserva/database/repository/queue"
	"reserva/models"
	"reserva/services/catalog"
	"reserva/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Gateway   Gateway
	Queue     queueRepo.QueueRepository
	Idem      idemRepo.IdempotencyRepository
	Bookings  bookingRepo.BookingRepository
	Customers customerRepo.CustomerRepository
	Providers providerRepo.ProviderRepository
	Catalog   catalog.ServiceCatalog
	Metrics   *utils.Metrics
	Logger    *zap.Logger

	ShopName       string
	CancelLinkBase string
	PromoImageURL  string
	SendDelay      time.Duration    // pause between sequential sends
	Now            func() time.Time // nil means time.Now
}

func (s *DefaultNotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// idempotencyKey hashes (kind, target, rendered content). Identical
// messages to the same phone always collide; anything else never does.
func idempotencyKey(kind, phone, text string) string {
	sum := sha256.Sum256([]byte(kind + "|" + phone + "|" + text))
	return hex.EncodeToString(sum[:])
}

// alreadySent consults the ledger. Ledger read errors are treated as "not
// sent": a duplicate message is preferable to a silently dropped one.
func (s *DefaultNotificationService) alreadySent(key string) bool {
	record, err := s.Idem.Get(key)
	if err != nil {
		s.Logger.Warn("idempotency lookup failed", zap.Error(err))
		return false
	}
	return record != nil && record.Status == models.IdempotencySent
}

// deliver runs the core dispatch protocol: ledger check, pending record,
// one synchronous gateway attempt, ledger promotion. Returns whether the
// message went out (or already had) and the gateway error, if any.
func (s *DefaultNotificationService) deliver(ctx context.Context, kind, phone, text string) (bool, error) {
	key := idempotencyKey(kind, phone, text)
	if s.alreadySent(key) {
		s.Metrics.GatewaySends.WithLabelValues(kind, "deduped").Inc()
		return true, nil
	}

	if err := s.Idem.PutPending(key); err != nil {
		s.Logger.Warn("failed to record pending idempotency key", zap.Error(err))
	}

	if err := s.Gateway.SendText(ctx, phone, text); err != nil {
		s.Metrics.GatewaySends.WithLabelValues(kind, "error").Inc()
		return false, err
	}

	s.Metrics.GatewaySends.WithLabelValues(kind, "ok").Inc()
	if err := s.Idem.MarkSent(key); err != nil {
		s.Logger.Warn("failed to mark idempotency key sent", zap.Error(err))
	}
	return true, nil
}

// dispatch attempts one delivery and parks the message in the outbound
// queue on failure. The triggering operation already committed, so gateway
// failures are never surfaced to it. The returned bool reports whether the
// message actually went out (vs. was queued for later).
func (s *DefaultNotificationService) dispatch(ctx context.Context, kind, phone, text, bookingID, customerID string) (bool, error) {
	sent, err := s.deliver(ctx, kind, phone, text)
	if sent {
		return true, nil
	}

	s.Logger.Warn("gateway delivery failed, queueing message",
		zap.String("kind", kind),
		zap.String("bookingId", bookingID),
		zap.Error(err))

	item := &models.OutboundQueueItem{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		CustomerID:  customerID,
		TargetPhone: phone,
		MessageType: kind,
		MessageText: text,
		Status:      models.QueuePending,
		Attempts:    0,
		LastError:   err.Error(),
	}
	if qErr := s.Queue.Insert(item); qErr != nil {
		// Both the gateway and the queue failed; the message is lost and
		// all we can do is say so loudly.
		s.Logger.Error("failed to queue undelivered message",
			zap.String("kind", kind),
			zap.String("bookingId", bookingID),
			zap.Error(qErr))
		return false, fmt.Errorf("delivery and queueing both failed: %w", qErr)
	}
	s.Metrics.QueueEnqueued.Inc()
	return false, nil
}

// buildContext assembles the template inputs for a booking message.
func (s *DefaultNotificationService) buildContext(booking *models.Booking, customer *models.Customer) messageContext {
	c := messageContext{
		FirstName: customer.Identity.FirstName,
		ShopName:  s.ShopName,
		SlotStart: booking.SlotStart,
	}

	if svc, err := s.Catalog.GetService(booking.ServiceID); err == nil && svc != nil {
		c.ServiceLabel = svc.Label
	} else {
		c.ServiceLabel = booking.ServiceID
	}
	if prov, err := s.Providers.GetByID(booking.ProviderID); err == nil && prov != nil {
		c.ProviderName = prov.Name
	} else {
		c.ProviderName = booking.ProviderID
	}
	return c
}

// SendBookingConfirmation delivers the confirmation message. The cancel
// link carries the raw cancel code; only its digest is stored anywhere.
func (s *DefaultNotificationService) SendBookingConfirmation(
	ctx context.Context,
	booking *models.Booking,
	customer *models.Customer,
	cancelCode string,
) error {
	c := s.buildContext(booking, customer)
	c.CancelLink = s.CancelLinkBase + cancelCode
	text := renderConfirmation(c)
	phone := utils.GatewayPhone(customer.Identity.Phone)

	delivered, err := s.dispatch(ctx, KindConfirmation, phone, text, booking.ID, customer.ID)
	if err != nil {
		return err
	}

	// Best-effort secondary flag; a failure here is not a delivery failure.
	if delivered {
		if err := s.Bookings.SetWhatsappStatus(booking.ID, models.WhatsappSent); err != nil {
			s.Logger.Warn("failed to flag booking whatsapp status",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}
	return nil
}

// SendCancellation confirms a cancellation to the customer.
func (s *DefaultNotificationService) SendCancellation(ctx context.Context, booking *models.Booking, customer *models.Customer) error {
	text := renderCancellation(s.buildContext(booking, customer))
	phone := utils.GatewayPhone(customer.Identity.Phone)
	_, err := s.dispatch(ctx, KindCancellation, phone, text, booking.ID, customer.ID)
	return err
}

// SendReminderForBooking delivers the day-before reminder. Cancelled and
// already-finished bookings are skipped silently.
func (s *DefaultNotificationService) SendReminderForBooking(ctx context.Context, bookingID string) error {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("reminder lookup failed: %w", err)
	}
	if booking == nil {
		return nil
	}
	if booking.Status != models.StatusBooked && booking.Status != models.StatusConfirmed {
		return nil
	}

	customer, err := s.Customers.GetByID(booking.CustomerID)
	if err != nil {
		return fmt.Errorf("reminder customer lookup failed: %w", err)
	}
	if customer == nil {
		return nil
	}

	text := renderReminder(s.buildContext(booking, customer))
	phone := utils.GatewayPhone(customer.Identity.Phone)
	_, err = s.dispatch(ctx, KindReminder, phone, text, booking.ID, customer.ID)
	return err
}

package reservation

import (
	"context"
	"fmt"
	"time"

	bookingRepo "reserva/database/repository/booking"
	customerRepo "reserva/database/repository/customer"
	providerRepo "reserva/database/repository/provider"
	reservationRepo "reserva/database/repository/reservation"
	slotRepo "reserva/database/repository/slot"
	"reserva/models"
	"reserva/services/catalog"
	"reserva/services/notification"
	"reserva/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reminderLead is how far before the slot the reminder fires.
const reminderLead = 24 * time.Hour

// DefaultCoordinator implements Coordinator over the transactional
// repository. It holds no in-process locks; concurrency safety comes
// entirely from the store's transaction isolation.
type DefaultCoordinator struct {
	TxnRepo   reservationRepo.ReservationTxnRepository
	Bookings  bookingRepo.BookingRepository
	Slots     slotRepo.SlotRepository
	Customers customerRepo.CustomerRepository
	Providers providerRepo.ProviderRepository
	Catalog   catalog.ServiceCatalog
	Notifier  notification.NotificationService
	Reminders ReminderScheduler
	Cache     *redis.Client
	Location  *time.Location
	Logger    *zap.Logger
}

// validateCreate runs every precondition that does not need the slot
// ledger: catalog, provider, schedule, grid. Fails before any write.
func (co *DefaultCoordinator) validateCreate(providerID, serviceID string, slotStart time.Time) (*models.Provider, error) {
	service, err := co.Catalog.GetService(serviceID)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if service == nil || !service.Active {
		return nil, NewValidationError(fmt.Sprintf("service %q is not active", serviceID))
	}

	provider, err := co.Providers.GetByID(providerID)
	if err != nil {
		return nil, fmt.Errorf("provider lookup failed: %w", err)
	}
	if provider == nil {
		return nil, NewNotFoundError(fmt.Sprintf("provider %q not found", providerID))
	}
	if !provider.Active {
		return nil, NewValidationError(fmt.Sprintf("provider %q is not accepting bookings", providerID))
	}

	if slotStart.Before(time.Now().In(co.Location)) {
		return nil, NewValidationError("slot time is in the past")
	}

	sched := catalog.ResolveDaySchedule(provider, slotStart.Weekday())
	if err := ValidateSlotTime(slotStart, sched); err != nil {
		return nil, err
	}
	return provider, nil
}

// Create books a slot. Exactly one of two concurrent calls for the same
// (provider, slot) commits; the other receives a conflict and must pick a
// different slot.
func (co *DefaultCoordinator) Create(ctx context.Context, input models.ReservationInput) (*models.BookingResult, error) {
	slotStart, err := ParseSlotLocal(input.SlotStart, co.Location)
	if err != nil {
		return nil, err
	}

	if _, err := co.validateCreate(input.ProviderID, input.ServiceID, slotStart); err != nil {
		return nil, err
	}

	phone, err := utils.NormalizePhone(input.Customer.Phone)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	slotID := SlotIDFor(slotStart)
	dateKey := DateKeyFor(slotStart)
	bookingID := uuid.New().String()
	cancelCode := utils.NewCancelCode()

	slot := &models.Slot{
		ProviderID: input.ProviderID,
		SlotID:     slotID,
		SlotStart:  slotStart,
		DateKey:    dateKey,
		Kind:       models.SlotKindBooking,
		BookingID:  bookingID,
	}
	booking := &models.Booking{
		ID:             bookingID,
		CustomerID:     utils.CustomerIDFromPhone(phone),
		ProviderID:     input.ProviderID,
		ServiceID:      input.ServiceID,
		SlotStart:      slotStart,
		DateKey:        dateKey,
		Status:         models.StatusBooked,
		WhatsappStatus: models.WhatsappPending,
		CancelCodeHash: utils.HashCancelCode(cancelCode),
	}
	customer := &models.Customer{
		ID: booking.CustomerID,
		Identity: models.CustomerIdentity{
			FirstName: input.Customer.FirstName,
			LastName:  input.Customer.LastName,
			Phone:     phone,
		},
		Profile: models.CustomerProfile{Birthday: input.Customer.BirthDate},
		Consent: models.CustomerConsent{MarketingOptIn: input.Customer.MarketingOptIn},
	}

	if err := co.TxnRepo.CreateReservation(ctx, slot, booking, customer); err != nil {
		if err == reservationRepo.ErrSlotTaken {
			return nil, NewConflictError(fmt.Sprintf("slot %s is no longer available", slotID))
		}
		return nil, err
	}

	co.invalidateAvailability(input.ProviderID, dateKey)
	co.Logger.Info("reservation created",
		zap.String("bookingId", bookingID),
		zap.String("providerId", input.ProviderID),
		zap.String("slotId", slotID))

	// Delivery is decoupled from the booking response; the caller never
	// waits on the gateway.
	go func() {
		bg := context.Background()
		if err := co.Notifier.SendBookingConfirmation(bg, booking, customer, cancelCode); err != nil {
			co.Logger.Error("confirmation dispatch failed",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}()

	if fireAt := slotStart.Add(-reminderLead); fireAt.After(time.Now()) && co.Reminders != nil {
		if err := co.Reminders.ScheduleReminder(bookingID, fireAt); err != nil {
			co.Logger.Warn("failed to schedule reminder",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	return &models.BookingResult{BookingID: bookingID, CancelCode: cancelCode}, nil
}

// Cancel cancels a booking by id.
func (co *DefaultCoordinator) Cancel(ctx context.Context, bookingID string) error {
	booking, err := co.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking lookup failed: %w", err)
	}
	if booking == nil {
		return NewNotFoundError(fmt.Sprintf("booking %q not found", bookingID))
	}
	return co.cancel(ctx, booking)
}

// CancelByCode authenticates a public cancellation by re-deriving the
// cancel-code digest and matching it against stored state. A caller can
// only ever cancel the booking whose secret they hold.
func (co *DefaultCoordinator) CancelByCode(ctx context.Context, cancelCode string) error {
	booking, err := co.Bookings.GetByCancelHash(utils.HashCancelCode(cancelCode))
	if err != nil {
		return fmt.Errorf("booking lookup failed: %w", err)
	}
	if booking == nil {
		return NewNotFoundError("no booking matches this cancellation code")
	}
	return co.cancel(ctx, booking)
}

func (co *DefaultCoordinator) cancel(ctx context.Context, booking *models.Booking) error {
	if !booking.Status.IsCancellable() {
		return NewIllegalTransitionError(fmt.Sprintf("booking in status %q cannot be cancelled", booking.Status))
	}

	slotID := SlotIDFor(booking.SlotStart.In(co.Location))
	if err := co.TxnRepo.CancelReservation(ctx, booking, slotID); err != nil {
		return err
	}

	co.invalidateAvailability(booking.ProviderID, booking.DateKey)
	co.Logger.Info("reservation cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("slotId", slotID))

	go func() {
		bg := context.Background()
		customer, err := co.Customers.GetByID(booking.CustomerID)
		if err != nil || customer == nil {
			co.Logger.Warn("cancellation notice skipped, customer unavailable",
				zap.String("bookingId", booking.ID))
			return
		}
		if err := co.Notifier.SendCancellation(bg, booking, customer); err != nil {
			co.Logger.Error("cancellation dispatch failed",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}()
	return nil
}

// Reschedule swaps the booking to a new slot as one atomic transaction:
// there is no reachable state where both or neither slot is held.
func (co *DefaultCoordinator) Reschedule(ctx context.Context, bookingID string, newSlotStart string) error {
	booking, err := co.Bookings.GetByID(bookingID)
	if err != nil {
		return fmt.Errorf("booking lookup failed: %w", err)
	}
	if booking == nil {
		return NewNotFoundError(fmt.Sprintf("booking %q not found", bookingID))
	}
	if booking.Status != models.StatusBooked && booking.Status != models.StatusConfirmed {
		return NewIllegalTransitionError(fmt.Sprintf("booking in status %q cannot be rescheduled", booking.Status))
	}

	slotStart, err := ParseSlotLocal(newSlotStart, co.Location)
	if err != nil {
		return err
	}
	if _, err := co.validateCreate(booking.ProviderID, booking.ServiceID, slotStart); err != nil {
		return err
	}

	oldSlotID := SlotIDFor(booking.SlotStart.In(co.Location))
	newSlotID := SlotIDFor(slotStart)
	if newSlotID == oldSlotID {
		return NewValidationError("booking already occupies this slot")
	}

	newSlot := &models.Slot{
		ProviderID: booking.ProviderID,
		SlotID:     newSlotID,
		SlotStart:  slotStart,
		DateKey:    DateKeyFor(slotStart),
		Kind:       models.SlotKindBooking,
		BookingID:  booking.ID,
	}
	if err := co.TxnRepo.RescheduleReservation(ctx, booking, oldSlotID, newSlot); err != nil {
		if err == reservationRepo.ErrSlotTaken {
			return NewConflictError(fmt.Sprintf("slot %s is no longer available", newSlotID))
		}
		return err
	}

	co.invalidateAvailability(booking.ProviderID, booking.DateKey)
	co.invalidateAvailability(booking.ProviderID, newSlot.DateKey)
	co.Logger.Info("reservation rescheduled",
		zap.String("bookingId", booking.ID),
		zap.String("oldSlotId", oldSlotID),
		zap.String("newSlotId", newSlotID))
	return nil
}

package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	reservationRepo "reserva/database/repository/reservation"
	"reserva/models"
	"reserva/services/catalog"
	"reserva/utils"

	"go.uber.org/zap"
)

// Availability returns the held and blocked slot ids for one provider day,
// plus the effective schedule. Results are cached briefly; every write path
// through the coordinator invalidates the matching day key.
func (co *DefaultCoordinator) Availability(ctx context.Context, providerID, dateKey string) (*models.DayAvailability, error) {
	day, err := time.ParseInLocation("2006-01-02", dateKey, co.Location)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", dateKey))
	}

	cacheKey := availabilityCacheKey(providerID, dateKey)
	if co.Cache != nil {
		if raw, err := co.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.DayAvailability
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	provider, err := co.Providers.GetByID(providerID)
	if err != nil {
		return nil, fmt.Errorf("provider lookup failed: %w", err)
	}
	if provider == nil {
		return nil, NewNotFoundError(fmt.Sprintf("provider %q not found", providerID))
	}

	slots, err := co.Slots.ListByDay(providerID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("slot listing failed: %w", err)
	}

	sched := catalog.ResolveDaySchedule(provider, day.Weekday())
	avail := &models.DayAvailability{
		ProviderID:     providerID,
		DateKey:        dateKey,
		BookedSlotIDs:  []string{},
		BlockedSlotIDs: []string{},
		Schedule:       &sched,
	}
	for _, slot := range slots {
		switch slot.Kind {
		case models.SlotKindBlock:
			avail.BlockedSlotIDs = append(avail.BlockedSlotIDs, slot.SlotID)
		default:
			avail.BookedSlotIDs = append(avail.BookedSlotIDs, slot.SlotID)
		}
	}

	if co.Cache != nil {
		if raw, err := json.Marshal(avail); err == nil {
			if err := co.Cache.Set(ctx, cacheKey, raw, utils.AvailabilityCacheTTL).Err(); err != nil {
				co.Logger.Warn("failed to cache availability", zap.Error(err))
			}
		}
	}
	return avail, nil
}

// ListDay lists the bookings on a provider-local calendar day.
func (co *DefaultCoordinator) ListDay(ctx context.Context, providerID, dateKey string) ([]models.Booking, error) {
	if _, err := time.ParseInLocation("2006-01-02", dateKey, co.Location); err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", dateKey))
	}
	bookings, err := co.Bookings.ListByProviderDay(providerID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("booking listing failed: %w", err)
	}
	return bookings, nil
}

// BlockSlot claims a slot administratively. Blocks compete in the same
// keyspace as bookings, so a block can never land on a held slot and no
// booking can land on a blocked one.
func (co *DefaultCoordinator) BlockSlot(ctx context.Context, input models.BlockSlotInput) error {
	slotStart, err := ParseSlotLocal(input.SlotStart, co.Location)
	if err != nil {
		return err
	}
	if !AlignedToGrid(slotStart) {
		return NewValidationError("slot time must sit on a 30-minute boundary")
	}

	slotID := SlotIDFor(slotStart)
	slot := &models.Slot{
		ProviderID: input.ProviderID,
		SlotID:     slotID,
		SlotStart:  slotStart,
		DateKey:    DateKeyFor(slotStart),
		Kind:       models.SlotKindBlock,
	}
	if err := co.TxnRepo.CreateBlock(ctx, slot); err != nil {
		if err == reservationRepo.ErrSlotTaken {
			return NewConflictError(fmt.Sprintf("slot %s is already held", slotID))
		}
		return err
	}

	co.invalidateAvailability(input.ProviderID, slot.DateKey)
	co.Logger.Info("slot blocked",
		zap.String("providerId", input.ProviderID),
		zap.String("slotId", slotID))
	return nil
}

// UnblockSlot releases an administrative block. A slot held by a booking is
// never released this way; cancellation is the only path that frees it.
func (co *DefaultCoordinator) UnblockSlot(ctx context.Context, input models.BlockSlotInput) error {
	slotStart, err := ParseSlotLocal(input.SlotStart, co.Location)
	if err != nil {
		return err
	}

	slotID := SlotIDFor(slotStart)
	if err := co.TxnRepo.RemoveBlock(ctx, input.ProviderID, slotID); err != nil {
		switch err {
		case reservationRepo.ErrSlotMissing:
			return NewNotFoundError(fmt.Sprintf("no block on slot %s", slotID))
		case reservationRepo.ErrSlotHeldByBooking:
			return NewConflictError(fmt.Sprintf("slot %s is held by a booking, cancel it instead", slotID))
		}
		return err
	}

	co.invalidateAvailability(input.ProviderID, DateKeyFor(slotStart))
	co.Logger.Info("slot unblocked",
		zap.String("providerId", input.ProviderID),
		zap.String("slotId", slotID))
	return nil
}

func availabilityCacheKey(providerID, dateKey string) string {
	return utils.AvailabilityCachePrefix + providerID + ":" + dateKey
}

// invalidateAvailability drops the cached day view after any slot mutation.
// Cache misses just fall back to the store, so failures are only logged.
func (co *DefaultCoordinator) invalidateAvailability(providerID, dateKey string) {
	if co.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := co.Cache.Del(ctx, availabilityCacheKey(providerID, dateKey)).Err(); err != nil {
		co.Logger.Warn("failed to invalidate availability cache",
			zap.String("providerId", providerID),
			zap.String("dateKey", dateKey),
			zap.Error(err))
	}
}

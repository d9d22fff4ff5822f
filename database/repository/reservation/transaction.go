package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/database"
	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReservationTxnRepo implements ReservationTxnRepository over the
// slots, bookings and customers collections.
type MongoReservationTxnRepo struct {
	slotColl     *mongo.Collection
	bookingColl  *mongo.Collection
	customerColl *mongo.Collection
}

// NewMongoReservationTxnRepo creates a new transactional repository.
func NewMongoReservationTxnRepo() ReservationTxnRepository {
	db := database.DB()
	return &MongoReservationTxnRepo{
		slotColl:     db.Collection("slots"),
		bookingColl:  db.Collection("bookings"),
		customerColl: db.Collection("customers"),
	}
}

// runTxn executes fn inside a session transaction. All reads must happen
// before any write inside fn; the transaction either commits in full or has
// no effect.
func (repo *MongoReservationTxnRepo) runTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// CreateReservation claims the slot, inserts the booking and
// creates-or-merges the customer.
func (repo *MongoReservationTxnRepo) CreateReservation(
	ctx context.Context,
	slot *models.Slot,
	booking *models.Booking,
	customer *models.Customer,
) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		// Reads first: slot existence is the reservation lock.
		count, err := repo.slotColl.CountDocuments(sc, bson.M{
			"provider_id": slot.ProviderID,
			"slot_id":     slot.SlotID,
		})
		if err != nil {
			return fmt.Errorf("slot existence check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		var existing models.Customer
		haveCustomer := true
		if err := repo.customerColl.FindOne(sc, bson.M{"id": customer.ID}).Decode(&existing); err != nil {
			if err != mongo.ErrNoDocuments {
				return fmt.Errorf("customer lookup failed: %w", err)
			}
			haveCustomer = false
		}

		now := time.Now()
		slot.CreatedAt = now
		slot.UpdatedAt = now
		if _, err := repo.slotColl.InsertOne(sc, slot); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert slot failed: %w", err)
		}

		booking.CreatedAt = now
		booking.UpdatedAt = now
		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}

		if haveCustomer {
			identity := models.MergeIdentity(existing.Identity, customer.Identity)
			set := bson.M{
				"identity":              identity,
				"stats.last_booking_at": now,
				"updated_at":            now,
			}
			if customer.Profile.Birthday != "" {
				set["profile.birthday"] = customer.Profile.Birthday
			}
			if customer.Consent.MarketingOptIn {
				set["consent.marketing_opt_in"] = true
			}
			update := bson.M{
				"$set": set,
				"$inc": bson.M{"stats.total_bookings": 1},
			}
			if _, err := repo.customerColl.UpdateOne(sc, bson.M{"id": customer.ID}, update); err != nil {
				return fmt.Errorf("merge customer failed: %w", err)
			}
		} else {
			customer.Stats = models.CustomerStats{TotalBookings: 1, LastBookingAt: now}
			customer.CreatedAt = now
			customer.UpdatedAt = now
			if _, err := repo.customerColl.InsertOne(sc, customer); err != nil {
				return fmt.Errorf("insert customer failed: %w", err)
			}
		}

		return nil
	})
	if err == ErrSlotTaken {
		return err
	}
	if err != nil {
		// A commit-time write conflict means a concurrent transaction won
		// the race for the same slot.
		if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.HasErrorLabel("TransientTransactionError") {
			return ErrSlotTaken
		}
		return fmt.Errorf("reservation transaction failed: %w", err)
	}
	return nil
}

// CancelReservation deletes the slot and marks the booking cancelled. The
// slot becomes immediately available for new reservations.
func (repo *MongoReservationTxnRepo) CancelReservation(ctx context.Context, booking *models.Booking, slotID string) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		if _, err := repo.slotColl.DeleteOne(sc, bson.M{
			"provider_id": booking.ProviderID,
			"slot_id":     slotID,
			"booking_id":  booking.ID,
		}); err != nil {
			return fmt.Errorf("delete slot failed: %w", err)
		}

		update := bson.M{"$set": bson.M{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		}}
		res, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": booking.ID}, update)
		if err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s not found", booking.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel transaction failed: %w", err)
	}
	return nil
}

// RescheduleReservation swaps the booking to a new slot. Either the whole
// swap happens or none of it does.
func (repo *MongoReservationTxnRepo) RescheduleReservation(
	ctx context.Context,
	booking *models.Booking,
	oldSlotID string,
	newSlot *models.Slot,
) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		// Read before write: check the new slot.
		count, err := repo.slotColl.CountDocuments(sc, bson.M{
			"provider_id": newSlot.ProviderID,
			"slot_id":     newSlot.SlotID,
		})
		if err != nil {
			return fmt.Errorf("slot existence check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		now := time.Now()
		newSlot.CreatedAt = now
		newSlot.UpdatedAt = now
		if _, err := repo.slotColl.InsertOne(sc, newSlot); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert new slot failed: %w", err)
		}

		if _, err := repo.slotColl.DeleteOne(sc, bson.M{
			"provider_id": booking.ProviderID,
			"slot_id":     oldSlotID,
			"booking_id":  booking.ID,
		}); err != nil {
			return fmt.Errorf("delete old slot failed: %w", err)
		}

		update := bson.M{"$set": bson.M{
			"slot_start": newSlot.SlotStart,
			"date_key":   newSlot.DateKey,
			"updated_at": now,
		}}
		res, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": booking.ID}, update)
		if err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s not found", booking.ID)
		}
		return nil
	})
	if err == ErrSlotTaken {
		return err
	}
	if err != nil {
		if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.HasErrorLabel("TransientTransactionError") {
			return ErrSlotTaken
		}
		return fmt.Errorf("reschedule transaction failed: %w", err)
	}
	return nil
}

// TransitionStatus persists a status change and the matching customer
// counter in one transaction. Graph validation happens in the coordinator
// before this is called.
func (repo *MongoReservationTxnRepo) TransitionStatus(ctx context.Context, booking *models.Booking, next models.BookingStatus) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		update := bson.M{"$set": bson.M{"status": next, "updated_at": now}}
		res, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": booking.ID, "status": booking.Status}, update)
		if err != nil {
			return fmt.Errorf("update booking status failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("booking %s no longer in status %s", booking.ID, booking.Status)
		}

		var counterField string
		switch next {
		case models.StatusCompleted:
			counterField = "stats.total_completed"
		case models.StatusNoShow:
			counterField = "stats.no_show_count"
		}
		if counterField != "" {
			update := bson.M{
				"$inc": bson.M{counterField: 1},
				"$set": bson.M{"updated_at": now},
			}
			if _, err := repo.customerColl.UpdateOne(sc, bson.M{"id": booking.CustomerID}, update); err != nil {
				return fmt.Errorf("update customer stats failed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("status transaction failed: %w", err)
	}
	return nil
}

// CreateBlock claims a slot administratively.
func (repo *MongoReservationTxnRepo) CreateBlock(ctx context.Context, slot *models.Slot) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		count, err := repo.slotColl.CountDocuments(sc, bson.M{
			"provider_id": slot.ProviderID,
			"slot_id":     slot.SlotID,
		})
		if err != nil {
			return fmt.Errorf("slot existence check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		now := time.Now()
		slot.CreatedAt = now
		slot.UpdatedAt = now
		if _, err := repo.slotColl.InsertOne(sc, slot); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert block failed: %w", err)
		}
		return nil
	})
	if err == ErrSlotTaken {
		return err
	}
	if err != nil {
		return fmt.Errorf("block transaction failed: %w", err)
	}
	return nil
}

// RemoveBlock releases an administrative block. A kind=booking slot can only
// be freed through CancelReservation.
func (repo *MongoReservationTxnRepo) RemoveBlock(ctx context.Context, providerID, slotID string) error {
	err := repo.runTxn(ctx, func(sc mongo.SessionContext) error {
		var slot models.Slot
		if err := repo.slotColl.FindOne(sc, bson.M{
			"provider_id": providerID,
			"slot_id":     slotID,
		}).Decode(&slot); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrSlotMissing
			}
			return fmt.Errorf("slot lookup failed: %w", err)
		}
		if slot.Kind != models.SlotKindBlock {
			return ErrSlotHeldByBooking
		}

		if _, err := repo.slotColl.DeleteOne(sc, bson.M{
			"provider_id": providerID,
			"slot_id":     slotID,
			"kind":        models.SlotKindBlock,
		}); err != nil {
			return fmt.Errorf("delete block failed: %w", err)
		}
		return nil
	})
	if err == ErrSlotMissing || err == ErrSlotHeldByBooking {
		return err
	}
	if err != nil {
		return fmt.Errorf("unblock transaction failed: %w", err)
	}
	return nil
}

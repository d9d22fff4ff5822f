package notification

import (
	"context"
	"errors"
	"testing"

	"reserva/models"
)

func queueItem(id, kind, phone, text string) *models.OutboundQueueItem {
	return &models.OutboundQueueItem{
		ID:          id,
		BookingID:   "b-" + id,
		TargetPhone: phone,
		MessageType: kind,
		MessageText: text,
		Status:      models.QueuePending,
	}
}

func TestSweepRetriesUntilExhausted(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.gateway.err = errors.New("gateway down")
	fx.queue.Insert(queueItem("q1", KindCancellation, "5511987654321", "oi"))

	ctx := context.Background()
	for attempt := 1; attempt <= models.MaxSendAttempts; attempt++ {
		report, err := fx.svc.SweepQueue(ctx, 10)
		if err != nil {
			t.Fatalf("sweep %d failed: %v", attempt, err)
		}
		if report.Fetched != 1 {
			t.Fatalf("sweep %d fetched %d, want 1", attempt, report.Fetched)
		}

		if attempt < models.MaxSendAttempts {
			if report.Retained != 1 || report.Exhausted != 0 {
				t.Errorf("sweep %d report = %+v, want retained", attempt, report)
			}
		} else {
			if report.Exhausted != 1 {
				t.Errorf("final sweep report = %+v, want exhausted", report)
			}
		}
	}

	failed := fx.queue.byStatus(models.QueueFailed)
	if len(failed) != 1 {
		t.Fatalf("failed items = %d, want 1", len(failed))
	}
	if failed[0].Attempts != models.MaxSendAttempts {
		t.Errorf("attempts = %d, want %d", failed[0].Attempts, models.MaxSendAttempts)
	}
	if failed[0].LastError == "" {
		t.Error("last error must be recorded")
	}

	// A failed item is invisible to further sweeps.
	report, err := fx.svc.SweepQueue(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if report.Fetched != 0 {
		t.Errorf("failed item must not be fetched again, report %+v", report)
	}
}

func TestSweepSendsAndFlipsBookingFlag(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.queue.Insert(queueItem("q1", KindConfirmation, "5511987654321", "confirmado"))

	report, err := fx.svc.SweepQueue(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Fatalf("report = %+v, want one sent", report)
	}

	if len(fx.queue.byStatus(models.QueueSent)) != 1 {
		t.Error("item must be marked sent")
	}
	if fx.bookings.whatsappStatus("b-q1") != models.WhatsappSent {
		t.Error("swept confirmation must flip the booking whatsapp flag")
	}
}

func TestSweepOneFailureDoesNotAbortBatch(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.gateway.failures = 1 // first send fails, rest succeed
	fx.queue.Insert(queueItem("q1", KindCancellation, "5511900000001", "a"))
	fx.queue.Insert(queueItem("q2", KindCancellation, "5511900000002", "b"))

	report, err := fx.svc.SweepQueue(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if report.Fetched != 2 || report.Sent != 1 || report.Retained != 1 {
		t.Errorf("report = %+v, want fetched 2 sent 1 retained 1", report)
	}

	pending := fx.queue.byStatus(models.QueuePending)
	if len(pending) != 1 || pending[0].ID != "q1" {
		t.Errorf("pending = %+v, want only q1", pending)
	}
}

func TestSweepRespectsLimit(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.queue.Insert(queueItem("q1", KindCancellation, "5511900000001", "a"))
	fx.queue.Insert(queueItem("q2", KindCancellation, "5511900000002", "b"))
	fx.queue.Insert(queueItem("q3", KindCancellation, "5511900000003", "c"))

	report, err := fx.svc.SweepQueue(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if report.Fetched != 2 || report.Sent != 2 {
		t.Errorf("report = %+v, want exactly 2 processed", report)
	}
	if len(fx.queue.byStatus(models.QueuePending)) != 1 {
		t.Error("third item must stay pending for the next sweep")
	}
}

func TestResetForRetryRearmsFailedItem(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.gateway.err = errors.New("gateway down")
	fx.queue.Insert(queueItem("q1", KindCancellation, "5511987654321", "oi"))

	ctx := context.Background()
	for i := 0; i < models.MaxSendAttempts; i++ {
		if _, err := fx.svc.SweepQueue(ctx, 10); err != nil {
			t.Fatal(err)
		}
	}
	if len(fx.queue.byStatus(models.QueueFailed)) != 1 {
		t.Fatal("item should be exhausted by now")
	}

	// Operator re-arms it and the gateway recovers.
	if err := fx.queue.ResetForRetry("q1"); err != nil {
		t.Fatal(err)
	}
	fx.gateway.err = nil

	report, err := fx.svc.SweepQueue(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Errorf("re-armed item should send, report %+v", report)
	}
}

package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"reserva/models"
)

func broadcastCustomer(id, first, phone string, optIn bool) models.Customer {
	return models.Customer{
		ID: id,
		Identity: models.CustomerIdentity{
			FirstName: first,
			Phone:     phone,
		},
		Consent: models.CustomerConsent{MarketingOptIn: optIn},
	}
}

func TestBroadcastSubstitutesPerRecipient(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.Customers = &fakeCustomers{all: []models.Customer{
		broadcastCustomer("c1", "Maria", "+5511900000001", true),
		broadcastCustomer("c2", "Joana", "+5511900000002", false),
	}}

	report, err := fx.svc.Broadcast(context.Background(), models.BroadcastInput{
		Template: "Oi {firstName}, promo nova!",
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Recipients != 2 || report.Sent != 2 {
		t.Fatalf("report = %+v, want 2 sent", report)
	}

	if !strings.Contains(fx.gateway.sent[0].text, "Maria") || !strings.Contains(fx.gateway.sent[1].text, "Joana") {
		t.Errorf("per-recipient substitution missing: %+v", fx.gateway.sent)
	}
}

func TestBroadcastOptInFilter(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.Customers = &fakeCustomers{
		all: []models.Customer{
			broadcastCustomer("c1", "Maria", "+5511900000001", true),
			broadcastCustomer("c2", "Joana", "+5511900000002", false),
		},
		optIn: []models.Customer{
			broadcastCustomer("c1", "Maria", "+5511900000001", true),
		},
	}

	report, err := fx.svc.Broadcast(context.Background(), models.BroadcastInput{
		Template:  "Oi {firstName}",
		OnlyOptIn: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Recipients != 1 || report.Sent != 1 {
		t.Errorf("report = %+v, want only the opted-in customer", report)
	}
}

func TestBroadcastDedupSkips(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.Customers = &fakeCustomers{all: []models.Customer{
		broadcastCustomer("c1", "Maria", "+5511900000001", true),
	}}
	input := models.BroadcastInput{Template: "Oi {firstName}"}

	if _, err := fx.svc.Broadcast(context.Background(), input); err != nil {
		t.Fatal(err)
	}
	report, err := fx.svc.Broadcast(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}

	if report.Sent != 0 || report.Skipped != 1 {
		t.Errorf("second identical broadcast: report = %+v, want all skipped", report)
	}
	if fx.gateway.sentCount() != 1 {
		t.Errorf("gateway calls = %d, want 1", fx.gateway.sentCount())
	}
}

func TestBroadcastBirthdaysUsesPromoImage(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.PromoImageURL = "https://cdn.reserva.app/promo.jpg"
	fx.svc.Customers = &fakeCustomers{birthdays: []models.Customer{
		broadcastCustomer("c1", "Maria", "+5511900000001", true),
	}}

	report, err := fx.svc.BroadcastBirthdays(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Fatalf("report = %+v", report)
	}

	if len(fx.gateway.media) != 1 {
		t.Fatalf("media sends = %d, want 1", len(fx.gateway.media))
	}
	if !strings.Contains(fx.gateway.media[0].text, "Maria") {
		t.Errorf("birthday caption must greet by name, got %q", fx.gateway.media[0].text)
	}
}

func TestBirthdayBroadcastRepeatsNextYear(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.svc.Customers = &fakeCustomers{birthdays: []models.Customer{
		broadcastCustomer("c1", "Maria", "+5511900000001", true),
	}}

	fx.svc.Now = func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }
	report, err := fx.svc.BroadcastBirthdays(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 {
		t.Fatalf("first year: report = %+v, want 1 sent", report)
	}

	report, err = fx.svc.BroadcastBirthdays(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 0 || report.Skipped != 1 {
		t.Errorf("same-day rerun: report = %+v, want deduped", report)
	}

	fx.svc.Now = func() time.Time { return time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC) }
	report, err = fx.svc.BroadcastBirthdays(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 || report.Skipped != 0 {
		t.Errorf("next year: report = %+v, want sent again", report)
	}
	if fx.gateway.sentCount() != 2 {
		t.Errorf("gateway calls = %d, want one per year", fx.gateway.sentCount())
	}
}

func TestBroadcastCollectsErrorsAndContinues(t *testing.T) {
	fx := newNotifyFixture(t)
	fx.gateway.failures = 1
	fx.svc.Customers = &fakeCustomers{all: []models.Customer{
		broadcastCustomer("c1", "Maria", "+5511900000001", true),
		broadcastCustomer("c2", "Joana", "+5511900000002", true),
	}}

	report, err := fx.svc.Broadcast(context.Background(), models.BroadcastInput{
		Template: "Oi {firstName}",
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Sent != 1 || len(report.Errors) != 1 {
		t.Errorf("report = %+v, want 1 sent and 1 error", report)
	}
	if len(fx.queue.byStatus(models.QueuePending)) != 0 {
		t.Error("broadcast failures must not enter the retry queue")
	}
}

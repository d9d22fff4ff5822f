package notification

import (
	"context"
	"fmt"
	"time"

	"reserva/models"
	"reserva/utils"

	"go.uber.org/zap"
)

// maxBroadcastErrors bounds the error list returned to the operator.
const maxBroadcastErrors = 20

// Broadcast mass-sends a template with per-recipient substitution. This is
// a supervised manual operation: failures are collected and reported, not
// queued for retry.
func (s *DefaultNotificationService) Broadcast(ctx context.Context, input models.BroadcastInput) (BroadcastReport, error) {
	var customers []models.Customer
	var err error
	if input.OnlyOptIn {
		customers, err = s.Customers.ListMarketingOptIn(input.MaxSends)
	} else {
		customers, err = s.Customers.ListAll(input.MaxSends)
	}
	if err != nil {
		return BroadcastReport{}, fmt.Errorf("failed to list broadcast recipients: %w", err)
	}

	return s.sendToAll(ctx, KindBroadcast, "", customers, func(c models.Customer) string {
		return renderBroadcast(input.Template, c)
	}, input.ImageURL)
}

// BroadcastBirthdays greets every customer whose birthday is today,
// attaching the configured promo image when present.
func (s *DefaultNotificationService) BroadcastBirthdays(ctx context.Context) (BroadcastReport, error) {
	today := s.now()
	customers, err := s.Customers.ListBirthdays(today.Format("01-02"), 0)
	if err != nil {
		return BroadcastReport{}, fmt.Errorf("failed to list birthday customers: %w", err)
	}

	// The greeting text repeats every year, so the dedup key must carry
	// the calendar day or next year's run would be skipped.
	return s.sendToAll(ctx, KindBirthday, today.Format("2006-01-02"), customers, func(c models.Customer) string {
		return renderBirthday(s.ShopName, c.Identity.FirstName)
	}, s.PromoImageURL)
}

func (s *DefaultNotificationService) sendToAll(
	ctx context.Context,
	kind, dedupScope string,
	customers []models.Customer,
	render func(models.Customer) string,
	imageURL string,
) (BroadcastReport, error) {
	report := BroadcastReport{Recipients: len(customers)}

	keyKind := kind
	if dedupScope != "" {
		keyKind = kind + ":" + dedupScope
	}

	for i, customer := range customers {
		if i > 0 && s.SendDelay > 0 {
			time.Sleep(s.SendDelay)
		}

		text := render(customer)
		phone := utils.GatewayPhone(customer.Identity.Phone)

		key := idempotencyKey(keyKind, phone, text)
		if s.alreadySent(key) {
			report.Skipped++
			continue
		}
		if err := s.Idem.PutPending(key); err != nil {
			s.Logger.Warn("failed to record pending idempotency key", zap.Error(err))
		}

		var err error
		if imageURL != "" {
			err = s.Gateway.SendMedia(ctx, phone, imageURL, text)
		} else {
			err = s.Gateway.SendText(ctx, phone, text)
		}
		if err != nil {
			s.Metrics.GatewaySends.WithLabelValues(kind, "error").Inc()
			if len(report.Errors) < maxBroadcastErrors {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", customer.ID, err))
			}
			continue
		}

		s.Metrics.GatewaySends.WithLabelValues(kind, "ok").Inc()
		if err := s.Idem.MarkSent(key); err != nil {
			s.Logger.Warn("failed to mark idempotency key sent", zap.Error(err))
		}
		report.Sent++
	}

	s.Logger.Info("broadcast finished",
		zap.String("kind", kind),
		zap.Int("recipients", report.Recipients),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

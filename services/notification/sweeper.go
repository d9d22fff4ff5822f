package notification

import (
	"context"
	"fmt"
	"time"

	"reserva/models"

	"go.uber.org/zap"
)

// SweepQueue retries up to limit pending queue items, oldest first. Sends
// are strictly sequential with a short pause between them, respecting the
// gateway's per-instance rate limit. One item's failure never aborts the
// rest of the batch.
func (s *DefaultNotificationService) SweepQueue(ctx context.Context, limit int) (SweepReport, error) {
	start := time.Now()
	s.Metrics.SweepRuns.Inc()
	defer func() {
		s.Metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	var report SweepReport

	items, err := s.Queue.FetchPending(limit)
	if err != nil {
		return report, fmt.Errorf("failed to fetch pending queue items: %w", err)
	}
	report.Fetched = len(items)

	for i, item := range items {
		if i > 0 && s.SendDelay > 0 {
			time.Sleep(s.SendDelay)
		}
		s.sweepOne(ctx, item, &report)
	}

	if report.Fetched > 0 {
		s.Logger.Info("queue sweep finished",
			zap.Int("fetched", report.Fetched),
			zap.Int("sent", report.Sent),
			zap.Int("retained", report.Retained),
			zap.Int("exhausted", report.Exhausted))
	}
	return report, nil
}

func (s *DefaultNotificationService) sweepOne(ctx context.Context, item models.OutboundQueueItem, report *SweepReport) {
	sent, err := s.deliver(ctx, item.MessageType, item.TargetPhone, item.MessageText)
	if sent {
		if mErr := s.Queue.MarkSent(item.ID); mErr != nil {
			s.Logger.Error("failed to mark queue item sent",
				zap.String("itemId", item.ID), zap.Error(mErr))
			return
		}
		report.Sent++

		if item.MessageType == KindConfirmation && item.BookingID != "" {
			if fErr := s.Bookings.SetWhatsappStatus(item.BookingID, models.WhatsappSent); fErr != nil {
				s.Logger.Warn("failed to flag booking whatsapp status",
					zap.String("bookingId", item.BookingID), zap.Error(fErr))
			}
		}
		return
	}

	attempts := item.Attempts + 1
	terminal := attempts >= models.MaxSendAttempts
	if mErr := s.Queue.MarkFailure(item.ID, attempts, err.Error(), terminal); mErr != nil {
		s.Logger.Error("failed to record queue item failure",
			zap.String("itemId", item.ID), zap.Error(mErr))
		return
	}

	if terminal {
		report.Exhausted++
		s.Metrics.QueueExhausted.Inc()
		s.Logger.Error("queue item exhausted its retries",
			zap.String("itemId", item.ID),
			zap.String("kind", item.MessageType),
			zap.Int("attempts", attempts),
			zap.Error(err))
	} else {
		report.Retained++
	}
}

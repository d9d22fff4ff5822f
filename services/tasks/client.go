package tasks

import (
	"fmt"
	"time"

	"reserva/config"
	"reserva/models"

	"github.com/hibiken/asynq"
)

// Client enqueues deferred tasks on the Redis-backed queue. It satisfies
// the coordinator's ReminderScheduler interface.
type Client struct {
	inner *asynq.Client
}

func NewClient() *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// ScheduleReminder enqueues a reminder task that fires at the given time.
func (c *Client) ScheduleReminder(bookingID string, fireAt time.Time) error {
	payload := models.ReminderPayload{
		BookingID: bookingID,
		FireDate:  fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := c.inner.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

// EnqueueSweep triggers an immediate queue sweep on the worker.
func (c *Client) EnqueueSweep(limit int) error {
	task, err := NewSweepTask(models.SweepPayload{Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to build sweep task: %w", err)
	}
	if _, err := c.inner.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue sweep task: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}

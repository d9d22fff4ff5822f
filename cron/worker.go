package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"reserva/config"
	"reserva/models"
	"reserva/services/notification"
	"reserva/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async worker in background and returns the
// server handle so shutdown can drain it.
func InitNotificationWorker(notifSvc notification.NotificationService, logger *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// Reminders and sweeps both end in sequential gateway sends;
			// a single lane keeps the send rate bounded.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReminderSend, handleReminderTask(notifSvc, logger))
	mux.HandleFunc(tasks.TypeQueueSweep, handleSweepTask(notifSvc, logger))

	// Start async worker with retry logic.
	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("notification worker failed to start",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))

				if attempts == maxAttempts {
					log.Fatal("notification worker could not start, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	return srv
}

func handleReminderTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		logger.Info("firing reminder",
			zap.String("bookingId", p.BookingID),
			zap.String("fireDate", p.FireDate))

		if err := notifSvc.SendReminderForBooking(ctx, p.BookingID); err != nil {
			logger.Error("reminder dispatch failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleSweepTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.SweepPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid sweep payload", zap.Error(err))
			return err
		}
		limit := p.Limit
		if limit <= 0 {
			limit = config.AppConfig.SweepBatchSize
		}

		_, err := notifSvc.SweepQueue(ctx, limit)
		return err
	}
}

// StartSchedulers wires the periodic jobs: the queue sweep every few minutes
// and the birthday broadcast each morning at 09:00 shop time.
func StartSchedulers(notifSvc notification.NotificationService, loc *time.Location, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))

	sweepSpec := fmt.Sprintf("@every %dm", config.AppConfig.SweepIntervalMin)
	if _, err := c.AddFunc(sweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := notifSvc.SweepQueue(ctx, config.AppConfig.SweepBatchSize); err != nil {
			logger.Error("scheduled queue sweep failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule queue sweep: %w", err)
	}

	if _, err := c.AddFunc("0 9 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := notifSvc.BroadcastBirthdays(ctx); err != nil {
			logger.Error("birthday broadcast failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule birthday broadcast: %w", err)
	}

	c.Start()
	logger.Info("schedulers started",
		zap.String("sweepEvery", sweepSpec),
		zap.String("birthdayAt", "09:00"))
	return c, nil
}

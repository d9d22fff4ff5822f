package tasks

import (
	"encoding/json"
	"time"

	"reserva/models"

	"github.com/hibiken/asynq"
)

const (
	TypeReminderSend = "reminder:send"
	TypeQueueSweep   = "queue:sweep"
)

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

func NewSweepTask(payload models.SweepPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeQueueSweep, b), nil
}

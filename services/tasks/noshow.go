// Package tasks defines the deferred jobs enqueued through asynq and the
// client adapter services use to schedule them.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeNoShowSweep = "appointment:noshow_sweep"

// NoShowPayload identifies the appointment a sweep task should inspect.
type NoShowPayload struct {
	AppointmentID string `json:"appointment_id"`
}

// NewNoShowSweepTask builds a sweep task that fires at the given moment,
// normally the appointment's scheduled time plus the configured grace.
func NewNoShowSweepTask(appointmentID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(NoShowPayload{AppointmentID: appointmentID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNoShowSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(3)}

	return task, opts, nil
}

// Scheduler wraps an asynq client as the TaskScheduler the booking engine
// expects.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler builds a Scheduler over the given queue connection.
func NewScheduler(opt asynq.RedisClientOpt) *Scheduler {
	return &Scheduler{client: asynq.NewClient(opt)}
}

// ScheduleNoShowSweep enqueues a sweep for the appointment at the given
// moment.
func (s *Scheduler) ScheduleNoShowSweep(appointmentID string, at time.Time) error {
	task, opts, err := NewNoShowSweepTask(appointmentID, at)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}

// Close releases the underlying queue connection.
func (s *Scheduler) Close() error {
	return s.client.Close()
}

// Package notify registers one-shot local reminders for dated tasks.
// The reminder identifier is the task id, so registering the same task
// again replaces the earlier reminder instead of duplicating it.
package notify

import (
	"time"

	"go.uber.org/zap"

	"agenda/internal/logger"
	"agenda/internal/task"
)

// Request describes one reminder registration.
type Request struct {
	ID      string
	Summary string
	Body    string
	At      time.Time
}

// Registrar is the host notification service boundary.
type Registrar interface {
	Register(req Request) error
}

type Scheduler struct {
	registrar Registrar
	log       *zap.Logger
}

func NewScheduler(r Registrar) *Scheduler {
	return &Scheduler{registrar: r, log: logger.Named("notify")}
}

// Schedule registers a reminder for the task. Undated tasks are a
// no-op. The trigger is the due date at minute granularity: seconds
// and finer are dropped. Registration failures are logged and
// swallowed; there is no retry and no cancellation path.
func (s *Scheduler) Schedule(t task.Task) {
	if t.DueDate == nil {
		return
	}
	due := *t.DueDate
	trigger := time.Date(due.Year(), due.Month(), due.Day(), due.Hour(), due.Minute(), 0, 0, due.Location())
	req := Request{
		ID:      t.ID,
		Summary: "Task due",
		Body:    t.Title,
		At:      trigger,
	}
	if err := s.registrar.Register(req); err != nil {
		s.log.Warn("reminder registration failed",
			zap.String("task_id", t.ID),
			zap.Time("trigger", trigger),
			zap.Error(err))
	}
}

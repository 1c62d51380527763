package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"todo-planner/internal/model"
	"todo-planner/internal/notify"
)

// pastDueGrace is how far into the future a reminder is pushed when its
// computed fire time has already passed, so the user still sees it.
const pastDueGrace = 5 * time.Second

// FireTime computes when a task's reminder should fire: the due time
// minus the lead minutes. A task without a due time counts as due now.
// A fire time at or before now is clamped to now plus a short grace.
func FireTime(task *model.Task, now time.Time) time.Time {
	due := now
	if task.DueAt != nil {
		due = *task.DueAt
	}
	fire := due.Add(-time.Duration(task.NotificationMinutesInAdvance) * time.Minute)
	if !fire.After(now) {
		fire = now.Add(pastDueGrace)
	}
	return fire
}

// NotificationScheduler keeps at most one pending reminder per task id
// and hands fired reminders to the delivery channel. Re-scheduling a
// task replaces its pending reminder; delivery failures are reported in
// the log and never retried.
type NotificationScheduler struct {
	notifier notify.Notifier
	log      hclog.Logger
	now      func() time.Time

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func NewNotificationScheduler(notifier notify.Notifier, log hclog.Logger) *NotificationScheduler {
	return &NotificationScheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
		timers:   make(map[uint]*time.Timer),
	}
}

// Schedule registers the reminder for task, replacing any pending one
// with the same id. Tasks with notifications disabled only cancel.
func (s *NotificationScheduler) Schedule(task *model.Task) {
	if !task.NotificationEnabled {
		s.Cancel(task.ID)
		return
	}

	now := s.now()
	fire := FireTime(task, now)
	reminder := notify.Reminder{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueAt:       task.DueAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[task.ID]; ok {
		timer.Stop()
	}
	s.timers[task.ID] = time.AfterFunc(fire.Sub(now), func() {
		s.fire(reminder)
	})
	s.log.Debug("reminder scheduled", "task", task.ID, "fire_at", fire)
}

// ScheduleAll registers reminders for every notification-enabled task.
// Called at startup to restore pending reminders from a fresh process.
func (s *NotificationScheduler) ScheduleAll(tasks []model.Task) {
	for i := range tasks {
		if tasks[i].NotificationEnabled && !tasks[i].IsCompleted {
			s.Schedule(&tasks[i])
		}
	}
}

// Cancel drops the pending reminder for id, if any.
func (s *NotificationScheduler) Cancel(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Stop cancels every pending reminder.
func (s *NotificationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many reminders are currently scheduled.
func (s *NotificationScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *NotificationScheduler) fire(reminder notify.Reminder) {
	s.mu.Lock()
	delete(s.timers, reminder.TaskID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.notifier.Notify(ctx, reminder); err != nil {
		s.log.Error("deliver reminder failed", "task", reminder.TaskID, "error", err)
	}
}

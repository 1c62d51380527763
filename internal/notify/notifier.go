// Package notify delivers task reminders and digests to the user.
package notify

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Reminder carries everything a delivery channel needs to render a
// due-task notification that links back to the task.
type Reminder struct {
	TaskID      uint
	Title       string
	Description string
	DueAt       *time.Time
}

// Notifier is a delivery channel for reminders and free-form digests.
// Delivery failures are reported to the caller but are never retried.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
	Send(ctx context.Context, text string) error
}

// LogNotifier writes notifications to the log. It is the fallback
// channel when no external delivery is configured.
type LogNotifier struct {
	log hclog.Logger
}

func NewLogNotifier(log hclog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, r Reminder) error {
	n.log.Info("task reminder", "task", r.TaskID, "title", r.Title, "description", r.Description)
	return nil
}

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.log.Info("notification", "text", text)
	return nil
}

package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"todo-planner/internal/model"
)

// TaskLister provides the one-shot snapshot the digest is built from.
type TaskLister interface {
	ListSorted(ctx context.Context) ([]model.Task, error)
}

// ReminderService builds the human-readable daily digest of open tasks.
type ReminderService struct {
	tasks TaskLister
}

func NewReminderService(tasks TaskLister) *ReminderService {
	return &ReminderService{tasks: tasks}
}

// DailySummary renders every open task, in due order, as an HTML digest.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.tasks.ListSorted(ctx)
	if err != nil {
		return "", err
	}

	var pending []model.Task
	for _, task := range tasks {
		if !task.IsCompleted {
			pending = append(pending, task)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	if len(pending) == 0 {
		builder.WriteString("— no open tasks\n")
	} else {
		for _, task := range pending {
			builder.WriteString(formatTaskLine(task, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTaskLine(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if task.DueAt != nil {
		due := task.DueAt.In(now.Location())
		switch {
		case now.After(due):
			icon = "⚠️"
		case due.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	title := html.EscapeString(strings.TrimSpace(task.Title))
	sb.WriteString(fmt.Sprintf("%s %s", icon, title))

	if task.Category != nil {
		if trimmed := strings.TrimSpace(*task.Category); trimmed != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(trimmed)))
		}
	}

	if task.DueAt != nil {
		due := task.DueAt.In(now.Location())
		if now.After(due) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s — <b>overdue</b>", due.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", due.Format("2006-01-02 15:04")))
		}
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
	}

	if len(task.Attachments) > 0 {
		sb.WriteString(fmt.Sprintf("\n   📎 %d attachment(s)", len(task.Attachments)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

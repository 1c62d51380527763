package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-planner/internal/live"
	"todo-planner/internal/model"
)

// ErrTaskNotFound is returned when an operation targets a task id with
// no matching row.
var ErrTaskNotFound = errors.New("task not found")

// taskOrder sorts every list query: due time ascending with tasks that
// have no due time placed last, creation time as tie-breaker.
const taskOrder = "due_at NULLS LAST, created_at ASC"

// TaskStore persists tasks and exposes live queries over them. Every
// mutation commits before the change signal fires, so live results
// always reflect the durable state.
type TaskStore struct {
	db      *gorm.DB
	log     hclog.Logger
	changes live.Signal
}

func NewTaskStore(db *gorm.DB, log hclog.Logger) *TaskStore {
	return &TaskStore{db: db, log: log}
}

// Insert saves a task, assigning a fresh id when the task's id is
// unset. When the id is set, an existing row with that id is replaced.
// Returns the final id.
func (s *TaskStore) Insert(ctx context.Context, task *model.Task) (uint, error) {
	db := s.db.WithContext(ctx)
	var err error
	if task.ID == 0 {
		err = db.Create(task).Error
	} else {
		err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(task).Error
	}
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	s.changes.Notify()
	return task.ID, nil
}

// Update overwrites the row matching task.ID with all fields of task,
// zero values included. Returns ErrTaskNotFound when no row matches.
func (s *TaskStore) Update(ctx context.Context, task *model.Task) error {
	res := s.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", task.ID).
		Select("*").
		Updates(task)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	s.changes.Notify()
	return nil
}

// Delete removes the row matching task.ID. Deleting an absent row is
// a no-op.
func (s *TaskStore) Delete(ctx context.Context, task *model.Task) error {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, task.ID)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.changes.Notify()
	}
	return nil
}

// GetByID is a one-shot lookup; returns ErrTaskNotFound when absent.
func (s *TaskStore) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// ListSorted returns a one-shot snapshot of all tasks in query order.
func (s *TaskStore) ListSorted(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Order(taskOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// AllSorted returns a live list of every task.
func (s *TaskStore) AllSorted() *live.Query[model.Task] {
	return s.watch(func(db *gorm.DB) *gorm.DB {
		return db
	})
}

// Active returns a live list of tasks not yet completed.
func (s *TaskStore) Active() *live.Query[model.Task] {
	return s.watch(func(db *gorm.DB) *gorm.DB {
		return db.Where("is_completed = ?", false)
	})
}

// Completed returns a live list of completed tasks.
func (s *TaskStore) Completed() *live.Query[model.Task] {
	return s.watch(func(db *gorm.DB) *gorm.DB {
		return db.Where("is_completed = ?", true)
	})
}

// Search returns a live list of tasks whose title or description
// contains text, case-insensitively.
func (s *TaskStore) Search(text string) *live.Query[model.Task] {
	pattern := "%" + text + "%"
	return s.watch(func(db *gorm.DB) *gorm.DB {
		return db.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	})
}

// Filtered returns a live list narrowed by category and completion.
// A nil category means all categories; showCompleted false excludes
// completed tasks.
func (s *TaskStore) Filtered(category *string, showCompleted bool) *live.Query[model.Task] {
	return s.watch(func(db *gorm.DB) *gorm.DB {
		if category != nil {
			db = db.Where("category = ?", *category)
		}
		if !showCompleted {
			db = db.Where("is_completed = ?", false)
		}
		return db
	})
}

func (s *TaskStore) watch(scope func(*gorm.DB) *gorm.DB) *live.Query[model.Task] {
	fetch := func() ([]model.Task, error) {
		var tasks []model.Task
		err := scope(s.db.Model(&model.Task{})).Order(taskOrder).Find(&tasks).Error
		if err != nil {
			return nil, fmt.Errorf("query tasks: %w", err)
		}
		return tasks, nil
	}
	return live.Watch(&s.changes, fetch, func(err error) {
		s.log.Error("live task query failed", "error", err)
	})
}

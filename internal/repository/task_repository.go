package repository

import (
	"context"

	"todo-planner/internal/live"
	"todo-planner/internal/model"
)

// TaskRepository is a pass-through façade over TaskStore. It adds no
// logic; it exists so callers depend on a seam rather than on the
// storage technology directly.
type TaskRepository struct {
	store *TaskStore
}

func NewTaskRepository(store *TaskStore) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) (uint, error) {
	return r.store.Insert(ctx, task)
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.store.Update(ctx, task)
}

func (r *TaskRepository) Delete(ctx context.Context, task *model.Task) error {
	return r.store.Delete(ctx, task)
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	return r.store.GetByID(ctx, id)
}

func (r *TaskRepository) ListSorted(ctx context.Context) ([]model.Task, error) {
	return r.store.ListSorted(ctx)
}

func (r *TaskRepository) AllSorted() *live.Query[model.Task] {
	return r.store.AllSorted()
}

func (r *TaskRepository) Active() *live.Query[model.Task] {
	return r.store.Active()
}

func (r *TaskRepository) Completed() *live.Query[model.Task] {
	return r.store.Completed()
}

func (r *TaskRepository) Search(text string) *live.Query[model.Task] {
	return r.store.Search(text)
}

func (r *TaskRepository) Filtered(category *string, showCompleted bool) *live.Query[model.Task] {
	return r.store.Filtered(category, showCompleted)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"todo-planner/internal/live"
	"todo-planner/internal/model"
)

// ErrValidation marks a task rejected before it reached storage.
var ErrValidation = errors.New("invalid task")

// TaskRepository is the storage seam the pipeline depends on.
type TaskRepository interface {
	Insert(ctx context.Context, task *model.Task) (uint, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	AllSorted() *live.Query[model.Task]
}

// TaskQueryPipeline derives one live task list from four live inputs:
// search text, an explicit category filter, the show-completed setting
// and the selected-categories setting. Whenever any input or the task
// table changes, it refilters the sorted task list and publishes a full
// replacement. Ordering is inherited from the store and never resorted.
type TaskQueryPipeline struct {
	repo TaskRepository
	log  hclog.Logger

	searchQuery      *live.Value[string]
	selectedCategory *live.Value[*string]

	showCompleted      *live.Value[bool]
	selectedCategories *live.Value[[]string]

	all     *live.Query[model.Task]
	tasks   *live.Value[[]model.Task]
	cancels []func()
}

// NewTaskQueryPipeline wires the pipeline to the repository and the two
// settings observables. The initial output is an empty list until the
// first recomputation runs.
func NewTaskQueryPipeline(
	repo TaskRepository,
	showCompleted *live.Value[bool],
	selectedCategories *live.Value[[]string],
	log hclog.Logger,
) *TaskQueryPipeline {
	p := &TaskQueryPipeline{
		repo:               repo,
		log:                log,
		searchQuery:        live.NewValue(""),
		selectedCategory:   live.NewValue[*string](nil),
		showCompleted:      showCompleted,
		selectedCategories: selectedCategories,
		tasks:              live.NewValue([]model.Task{}),
	}

	p.all = repo.AllSorted()
	p.cancels = append(p.cancels,
		p.all.Subscribe(func([]model.Task) { p.recompute() }),
		p.searchQuery.Subscribe(func(string) { p.recompute() }),
		p.selectedCategory.Subscribe(func(*string) { p.recompute() }),
		p.showCompleted.Subscribe(func(bool) { p.recompute() }),
		p.selectedCategories.Subscribe(func([]string) { p.recompute() }),
	)
	return p
}

// Tasks is the derived live list consumed by the presentation layer.
func (p *TaskQueryPipeline) Tasks() *live.Value[[]model.Task] { return p.tasks }

// SearchQuery observes the current search text.
func (p *TaskQueryPipeline) SearchQuery() *live.Value[string] { return p.searchQuery }

// SelectedCategory observes the explicit category filter; nil means all.
func (p *TaskQueryPipeline) SelectedCategory() *live.Value[*string] { return p.selectedCategory }

func (p *TaskQueryPipeline) SetSearchQuery(query string) {
	p.searchQuery.Set(query)
}

func (p *TaskQueryPipeline) SetSelectedCategory(category *string) {
	p.selectedCategory.Set(category)
}

// Close drops every subscription; the last published list is retained.
func (p *TaskQueryPipeline) Close() {
	for _, cancel := range p.cancels {
		cancel()
	}
	p.cancels = nil
	p.all.Close()
}

func (p *TaskQueryPipeline) recompute() {
	query := p.searchQuery.Get()
	category := p.selectedCategory.Get()
	showCompleted := p.showCompleted.Get()
	selected := p.selectedCategories.Get()

	all := p.all.Get()
	filtered := make([]model.Task, 0, len(all))
	for _, task := range all {
		if !matchesSearch(task, query) {
			continue
		}
		if !matchesCategory(task, category) {
			continue
		}
		if !inSelectedCategories(task, selected) {
			continue
		}
		if !showCompleted && task.IsCompleted {
			continue
		}
		filtered = append(filtered, task)
	}
	p.tasks.Set(filtered)
}

func matchesSearch(task model.Task, query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Description), query)
}

func matchesCategory(task model.Task, filter *string) bool {
	if filter == nil {
		return true
	}
	return task.Category != nil && *task.Category == *filter
}

// inSelectedCategories treats an empty set as "no restriction". A task
// without a category is only visible when the set is empty, matching
// the list screen's settings semantics.
func inSelectedCategories(task model.Task, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if task.Category == nil {
		return false
	}
	for _, name := range selected {
		if name == *task.Category {
			return true
		}
	}
	return false
}

// ValidateTask rejects tasks that must not reach storage: title and
// description are required non-blank.
func ValidateTask(task *model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	return nil
}

// InsertTask saves a new task in the background. The caller does not
// observe completion; failures are logged only.
func (p *TaskQueryPipeline) InsertTask(task *model.Task) {
	if err := ValidateTask(task); err != nil {
		p.log.Warn("insert rejected", "error", err)
		return
	}
	go func() {
		if _, err := p.repo.Insert(context.Background(), task); err != nil {
			p.log.Error("insert task failed", "error", err)
		}
	}()
}

// UpdateTask overwrites an existing task in the background.
func (p *TaskQueryPipeline) UpdateTask(task *model.Task) {
	if err := ValidateTask(task); err != nil {
		p.log.Warn("update rejected", "error", err)
		return
	}
	go func() {
		if err := p.repo.Update(context.Background(), task); err != nil {
			p.log.Error("update task failed", "task", task.ID, "error", err)
		}
	}()
}

// DeleteTask removes a task in the background.
func (p *TaskQueryPipeline) DeleteTask(task *model.Task) {
	go func() {
		if err := p.repo.Delete(context.Background(), task); err != nil {
			p.log.Error("delete task failed", "task", task.ID, "error", err)
		}
	}()
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-planner/internal/model"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// One connection keeps the in-memory database alive for the whole test.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Task{}, &model.Setting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestStore(t *testing.T) *TaskStore {
	t.Helper()
	return NewTaskStore(setupTestDB(t), hclog.NewNullLogger())
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestTaskStoreInsertAssignsFreshIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Insert(ctx, &model.Task{Title: "Buy milk", Description: "2 liters"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if first == 0 {
		t.Fatal("expected a strictly positive id")
	}

	second, err := store.Insert(ctx, &model.Task{Title: "Walk dog", Description: "Evening"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if second == first {
		t.Fatalf("expected a previously unused id, got %d twice", first)
	}
}

func TestTaskStoreInsertReplacesOnIDCollision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &model.Task{Title: "Original", Description: "v1"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	replacement := &model.Task{ID: id, Title: "Replaced", Description: "v2"}
	got, err := store.Insert(ctx, replacement)
	if err != nil {
		t.Fatalf("Insert() replace error = %v", err)
	}
	if got != id {
		t.Fatalf("expected id %d to be kept, got %d", id, got)
	}

	found, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "Replaced" {
		t.Fatalf("expected replaced row, got title %q", found.Title)
	}
}

func TestTaskStoreAttachmentsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	attachments := model.AttachmentList{
		{ID: 1, TaskID: 0, FileURI: "content://docs/report.pdf", CreatedAt: 1700000000000},
		{ID: 2, TaskID: 0, FileURI: "/data/files/photo.jpg", CreatedAt: 1700000001000},
	}
	id, err := store.Insert(ctx, &model.Task{
		Title:       "With files",
		Description: "two attachments",
		Attachments: attachments,
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	found, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(found.Attachments) != len(attachments) {
		t.Fatalf("expected %d attachments, got %d", len(attachments), len(found.Attachments))
	}
	for i := range attachments {
		if found.Attachments[i] != attachments[i] {
			t.Errorf("attachment %d: expected %+v, got %+v", i, attachments[i], found.Attachments[i])
		}
	}
}

func TestTaskStoreEmptyAttachmentsRoundTripAsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &model.Task{Title: "No files", Description: "plain"})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	found, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Attachments == nil {
		t.Fatal("expected empty attachment list, got nil")
	}
	if len(found.Attachments) != 0 {
		t.Fatalf("expected no attachments, got %v", found.Attachments)
	}
}

func TestTaskStoreUpdateMissingRowErrors(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), &model.Task{ID: 999, Title: "Ghost", Description: "gone"})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskStoreCompletionToggle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Now().Add(24 * time.Hour)
	id, err := store.Insert(ctx, &model.Task{
		Title:       "Buy milk",
		Description: "",
		Category:    strPtr("Home"),
		DueAt:       timePtr(due),
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	active := store.Active()
	defer active.Close()
	completed := store.Completed()
	defer completed.Close()

	if got := active.Get(); len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected active list to contain the task, got %v", got)
	}

	task, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	task.IsCompleted = true
	if err := store.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := active.Get(); len(got) != 0 {
		t.Fatalf("expected active list to be empty, got %v", got)
	}
	if got := completed.Get(); len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected completed list to contain the task, got %v", got)
	}

	// Toggling back must persist the zero value too.
	task.IsCompleted = false
	if err := store.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := active.Get(); len(got) != 1 {
		t.Fatalf("expected task back in active list, got %v", got)
	}
}

func TestTaskStoreOrderingDueAscendingNullsLast(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inserts := []*model.Task{
		{Title: "third", Description: "d", DueAt: timePtr(base.Add(3 * time.Hour))},
		{Title: "first", Description: "d", DueAt: timePtr(base.Add(1 * time.Hour))},
		{Title: "no due", Description: "d"},
		{Title: "second", Description: "d", DueAt: timePtr(base.Add(2 * time.Hour))},
	}
	for _, task := range inserts {
		if _, err := store.Insert(ctx, task); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	all := store.AllSorted()
	defer all.Close()
	got := all.Get()
	if len(got) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(got))
	}

	wantOrder := []string{"first", "second", "third", "no due"}
	for i, title := range wantOrder {
		if got[i].Title != title {
			t.Fatalf("position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}

	for i := 0; i+1 < len(got); i++ {
		a, b := got[i].DueAt, got[i+1].DueAt
		if a == nil && b != nil {
			t.Fatal("task without due time sorted before one with a due time")
		}
		if a != nil && b != nil && a.After(*b) {
			t.Fatal("due times are not non-decreasing")
		}
	}
}

func TestTaskStoreSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, &model.Task{Title: "Buy milk", Description: "2 liters"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := store.Insert(ctx, &model.Task{Title: "Walk dog", Description: "Evening round"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	q := store.Search("milk")
	defer q.Close()
	if got := q.Get(); len(got) != 1 || got[0].Title != "Buy milk" {
		t.Fatalf("expected only the milk task, got %v", got)
	}

	// Case-insensitive, and matching against the description too.
	upper := store.Search("MILK")
	defer upper.Close()
	if got := upper.Get(); len(got) != 1 {
		t.Fatalf("expected case-insensitive match, got %v", got)
	}

	desc := store.Search("evening")
	defer desc.Close()
	if got := desc.Get(); len(got) != 1 || got[0].Title != "Walk dog" {
		t.Fatalf("expected description match, got %v", got)
	}
}

func TestTaskStoreFiltered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, &model.Task{Title: "Mop floor", Description: "d", Category: strPtr("Home")}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := store.Insert(ctx, &model.Task{Title: "File report", Description: "d", Category: strPtr("Work")}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := store.Insert(ctx, &model.Task{Title: "Done chore", Description: "d", Category: strPtr("Home"), IsCompleted: true}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	work := store.Filtered(strPtr("Work"), true)
	defer work.Close()
	if got := work.Get(); len(got) != 1 || got[0].Title != "File report" {
		t.Fatalf("expected exactly the Work task, got %v", got)
	}

	// nil category means all categories; showCompleted false hides done tasks.
	open := store.Filtered(nil, false)
	defer open.Close()
	if got := open.Get(); len(got) != 2 {
		t.Fatalf("expected two open tasks, got %v", got)
	}

	everything := store.Filtered(nil, true)
	defer everything.Close()
	if got := everything.Get(); len(got) != 3 {
		t.Fatalf("expected all three tasks, got %v", got)
	}
}

func TestTaskStoreLiveQueriesReEmitAfterMutation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	all := store.AllSorted()
	defer all.Close()

	var emissions [][]model.Task
	cancel := all.Subscribe(func(tasks []model.Task) {
		emissions = append(emissions, tasks)
	})
	defer cancel()

	if _, err := store.Insert(ctx, &model.Task{Title: "Buy milk", Description: "d"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Initial snapshot plus the re-emission after insert.
	if len(emissions) != 2 {
		t.Fatalf("expected 2 emissions, got %d", len(emissions))
	}
	if len(emissions[1]) != 1 {
		t.Fatalf("expected re-emission to carry the inserted task, got %v", emissions[1])
	}

	task := emissions[1][0]
	if err := store.Delete(ctx, &task); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(emissions) != 3 || len(emissions[2]) != 0 {
		t.Fatalf("expected empty re-emission after delete, got %v", emissions)
	}
}

func TestTaskStoreDeleteMissingRowIsNoop(t *testing.T) {
	store := newTestStore(t)

	if err := store.Delete(context.Background(), &model.Task{ID: 42}); err != nil {
		t.Fatalf("Delete() of absent row should be a no-op, got %v", err)
	}
}

func TestTaskStoreGetByIDMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), 12345)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

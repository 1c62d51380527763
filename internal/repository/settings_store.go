package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-planner/internal/live"
	"todo-planner/internal/model"
)

const (
	keyShowCompleted       = "show_completed_tasks"
	keySelectedCategories  = "selected_categories"
	keyNotificationMinutes = "default_notification_minutes"
)

const defaultNotificationMinutes = 15

// SettingsStore persists the three user preferences and exposes each as
// a live value. A missing or unreadable key always yields its default,
// never an error; values are JSON-encoded in a key-value table.
type SettingsStore struct {
	db  *gorm.DB
	log hclog.Logger

	showCompleted      *live.Value[bool]
	selectedCategories *live.Value[[]string]
	leadMinutes        *live.Value[int]
}

func NewSettingsStore(db *gorm.DB, log hclog.Logger) *SettingsStore {
	s := &SettingsStore{db: db, log: log}
	s.showCompleted = live.NewValue(loadSetting(s, keyShowCompleted, true))
	s.selectedCategories = live.NewValue(loadSetting(s, keySelectedCategories, defaultCategories()))
	s.leadMinutes = live.NewValue(loadSetting(s, keyNotificationMinutes, defaultNotificationMinutes))
	return s
}

func defaultCategories() []string {
	out := make([]string, len(model.Categories))
	copy(out, model.Categories)
	return out
}

// ShowCompleted observes whether completed tasks are shown. Default true.
func (s *SettingsStore) ShowCompleted() *live.Value[bool] { return s.showCompleted }

// SelectedCategories observes the category set visible in the list.
// Default is the full fixed category set.
func (s *SettingsStore) SelectedCategories() *live.Value[[]string] { return s.selectedCategories }

// DefaultNotificationMinutes observes the default reminder lead time.
// Default 15 minutes.
func (s *SettingsStore) DefaultNotificationMinutes() *live.Value[int] { return s.leadMinutes }

// UpdateShowCompleted persists the flag and re-emits it.
func (s *SettingsStore) UpdateShowCompleted(ctx context.Context, show bool) error {
	if err := s.save(ctx, keyShowCompleted, show); err != nil {
		return err
	}
	s.showCompleted.Set(show)
	return nil
}

// UpdateSelectedCategories persists the category set and re-emits it.
func (s *SettingsStore) UpdateSelectedCategories(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	if err := s.save(ctx, keySelectedCategories, categories); err != nil {
		return err
	}
	s.selectedCategories.Set(categories)
	return nil
}

// UpdateDefaultNotificationMinutes persists the lead time and re-emits it.
func (s *SettingsStore) UpdateDefaultNotificationMinutes(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("lead minutes must be non-negative, got %d", minutes)
	}
	if err := s.save(ctx, keyNotificationMinutes, minutes); err != nil {
		return err
	}
	s.leadMinutes.Set(minutes)
	return nil
}

func (s *SettingsStore) save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	row := model.Setting{Key: key, Value: string(data)}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// loadSetting reads one key, substituting def on absence or any read
// failure. Read errors other than "not found" are logged and swallowed.
func loadSetting[T any](s *SettingsStore, key string, def T) T {
	var row model.Setting
	err := s.db.Where("key = ?", key).First(&row).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return def
	default:
		s.log.Warn("read setting failed, using default", "key", key, "error", err)
		return def
	}

	var out T
	if err := json.Unmarshal([]byte(row.Value), &out); err != nil {
		s.log.Warn("decode setting failed, using default", "key", key, "error", err)
		return def
	}
	return out
}

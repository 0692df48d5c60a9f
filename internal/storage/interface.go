package storage

import (
	"context"
	"encoding/json"

	"github.com/julianstephens/trackmy/internal/models"
)

// Provider is the persistent store for habits, per-day completions and settings.
// Every engine failure is reported as an errors.StorageError; lookups of
// absent records return an errors.NotFoundError.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	// Location describes where the data lives without exposing credentials.
	Location() string

	// Habits
	PutHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	// ListHabits returns habits ordered by creation time. An empty category lists all.
	ListHabits(ctx context.Context, category models.Category) ([]models.Habit, error)
	DeleteHabit(ctx context.Context, id string) error

	// Completions
	GetDayCompletion(ctx context.Context, date string) ([]string, error)
	AddCompletionMember(ctx context.Context, date, habitID string) error
	RemoveCompletionMember(ctx context.Context, date, habitID string) error
	// ReplaceDayCompletion overwrites a day's set; an empty set removes the record.
	ReplaceDayCompletion(ctx context.Context, date string, habitIDs []string) error
	// ListCompletions returns the records with start <= date <= end.
	// An empty bound is unbounded on that side.
	ListCompletions(ctx context.Context, start, end string) (models.CompletionMap, error)

	// Settings
	GetSetting(ctx context.Context, key string) (json.RawMessage, error)
	PutSetting(ctx context.Context, key string, value json.RawMessage) error
	ListSettings(ctx context.Context) (map[string]json.RawMessage, error)

	// Bulk
	ExportData(ctx context.Context) (models.SnapshotData, error)
	ImportData(ctx context.Context, data models.SnapshotData) error
	ClearAll(ctx context.Context) error
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

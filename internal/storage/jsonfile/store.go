// Package jsonfile keeps every collection in a single JSON document that is
// rewritten atomically on each mutation.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/utils"
)

// schemaVersion is the document layout version.
const schemaVersion = 1

type document struct {
	Version     int                        `json:"version"`
	Habits      []models.Habit             `json:"habits"`
	Completions models.CompletionMap       `json:"completions"`
	Settings    map[string]json.RawMessage `json:"settings"`
}

func newDocument() *document {
	return &document{
		Version:     schemaVersion,
		Habits:      []models.Habit{},
		Completions: models.CompletionMap{},
		Settings:    map[string]json.RawMessage{},
	}
}

type Store struct {
	path string

	mu  sync.Mutex
	doc *document
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.read()
	}

	s.doc = newDocument()
	return s.save()
}

func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil {
		return nil
	}
	return s.read()
}

func (s *Store) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'trackmy init' first")
		}
		return apperrors.Storage("read document", err)
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return &apperrors.FormatError{Reason: fmt.Sprintf("failed to parse %s", s.path), Err: err}
	}
	if doc.Version > schemaVersion {
		return fmt.Errorf("document version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, schemaVersion)
	}
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}
	if doc.Completions == nil {
		doc.Completions = models.CompletionMap{}
	}
	if doc.Settings == nil {
		doc.Settings = map[string]json.RawMessage{}
	}
	doc.Version = schemaVersion
	s.doc = doc
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return apperrors.Storage("encode document", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0600); err != nil {
		return apperrors.Storage("write document", err)
	}
	return nil
}

// mutate applies fn to a copy of the document and persists it. The in-memory
// document only changes when the write succeeds.
func (s *Store) mutate(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return apperrors.Storage("access document", fmt.Errorf("store is not open"))
	}

	prev := s.doc
	next := prev.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.doc = next
	if err := s.save(); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

func (s *Store) view(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return apperrors.Storage("access document", fmt.Errorf("store is not open"))
	}
	return fn(s.doc)
}

func (d *document) clone() *document {
	out := &document{
		Version:     d.Version,
		Habits:      append([]models.Habit{}, d.Habits...),
		Completions: d.Completions.Clone(),
		Settings:    make(map[string]json.RawMessage, len(d.Settings)),
	}
	for k, v := range d.Settings {
		out.Settings[k] = v
	}
	return out
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	return nil
}

// Location returns the document path.
func (s *Store) Location() string {
	return s.path
}

// Migrate is a no-op; older documents are upgraded when read.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if logFn != nil {
		logFn(fmt.Sprintf("Document schema is up to date (version %d)", schemaVersion))
	}
	return 0, nil
}

// SchemaVersion reports the document layout version.
func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	return schemaVersion, schemaVersion, nil
}

func (s *Store) PutHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = now
	}
	if habit.UpdatedAt.IsZero() {
		habit.UpdatedAt = now
	}

	err := s.mutate(func(doc *document) error {
		doc.putHabit(habit)
		return nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (d *document) putHabit(habit models.Habit) {
	for i := range d.Habits {
		if d.Habits[i].ID == habit.ID {
			d.Habits[i] = habit
			return
		}
	}
	d.Habits = append(d.Habits, habit)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	var out models.Habit
	err := s.view(func(doc *document) error {
		for _, h := range doc.Habits {
			if h.ID == id {
				out = h
				return nil
			}
		}
		return apperrors.NotFound("habit", id)
	})
	return out, err
}

func (s *Store) ListHabits(ctx context.Context, category models.Category) ([]models.Habit, error) {
	out := []models.Habit{}
	err := s.view(func(doc *document) error {
		for _, h := range doc.Habits {
			if category == "" || h.Category == category {
				out = append(out, h)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	return s.mutate(func(doc *document) error {
		kept := doc.Habits[:0]
		for _, h := range doc.Habits {
			if h.ID != id {
				kept = append(kept, h)
			}
		}
		doc.Habits = kept
		return nil
	})
}

func (s *Store) GetDayCompletion(ctx context.Context, date string) ([]string, error) {
	out := []string{}
	err := s.view(func(doc *document) error {
		out = append(out, doc.Completions[date]...)
		return nil
	})
	return out, err
}

func validDate(date string) error {
	if !utils.ValidDayKey(date) {
		return apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

func (s *Store) AddCompletionMember(ctx context.Context, date, habitID string) error {
	if err := validDate(date); err != nil {
		return err
	}
	return s.mutate(func(doc *document) error {
		if doc.Completions.Has(date, habitID) {
			return nil
		}
		doc.Completions[date] = append(doc.Completions[date], habitID)
		return nil
	})
}

func (s *Store) RemoveCompletionMember(ctx context.Context, date, habitID string) error {
	return s.mutate(func(doc *document) error {
		doc.replaceDay(date, removeID(doc.Completions[date], habitID))
		return nil
	})
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (d *document) replaceDay(date string, ids []string) {
	ids = models.UniqueIDs(ids)
	if len(ids) == 0 {
		delete(d.Completions, date)
		return
	}
	d.Completions[date] = ids
}

func (s *Store) ReplaceDayCompletion(ctx context.Context, date string, habitIDs []string) error {
	if err := validDate(date); err != nil {
		return err
	}
	return s.mutate(func(doc *document) error {
		doc.replaceDay(date, habitIDs)
		return nil
	})
}

func (s *Store) ListCompletions(ctx context.Context, start, end string) (models.CompletionMap, error) {
	for _, bound := range []string{start, end} {
		if bound != "" {
			if err := validDate(bound); err != nil {
				return nil, err
			}
		}
	}

	out := models.CompletionMap{}
	err := s.view(func(doc *document) error {
		for date, ids := range doc.Completions {
			if start != "" && date < start {
				continue
			}
			if end != "" && date > end {
				continue
			}
			out[date] = append([]string(nil), ids...)
		}
		return nil
	})
	return out, err
}

func (s *Store) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.view(func(doc *document) error {
		v, ok := doc.Settings[key]
		if !ok {
			return apperrors.NotFound("setting", key)
		}
		out = append(json.RawMessage(nil), v...)
		return nil
	})
	return out, err
}

func validSetting(key string, value json.RawMessage) error {
	if key == "" {
		return apperrors.Invalid("setting key cannot be empty")
	}
	if !json.Valid(value) {
		return apperrors.Invalid("setting %q is not valid JSON", key)
	}
	return nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	if err := validSetting(key, value); err != nil {
		return err
	}
	return s.mutate(func(doc *document) error {
		doc.Settings[key] = append(json.RawMessage(nil), value...)
		return nil
	})
}

func (s *Store) ListSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	err := s.view(func(doc *document) error {
		for k, v := range doc.Settings {
			out[k] = append(json.RawMessage(nil), v...)
		}
		return nil
	})
	return out, err
}

func (s *Store) ExportData(ctx context.Context) (models.SnapshotData, error) {
	var out models.SnapshotData
	err := s.view(func(doc *document) error {
		c := doc.clone()
		out = models.SnapshotData{
			Habits:      c.Habits,
			Completions: c.Completions,
			Settings:    c.Settings,
		}
		return nil
	})
	if err != nil {
		return models.SnapshotData{}, err
	}
	sort.SliceStable(out.Habits, func(i, j int) bool {
		return out.Habits[i].CreatedAt.Before(out.Habits[j].CreatedAt)
	})
	return out, nil
}

// ImportData merges data into the document and writes it once.
func (s *Store) ImportData(ctx context.Context, data models.SnapshotData) error {
	for date := range data.Completions {
		if err := validDate(date); err != nil {
			return err
		}
	}
	for key, value := range data.Settings {
		if err := validSetting(key, value); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	return s.mutate(func(doc *document) error {
		for _, h := range data.Habits {
			if h.ID == "" {
				h.ID = uuid.NewString()
			}
			if h.CreatedAt.IsZero() {
				h.CreatedAt = now
			}
			if h.UpdatedAt.IsZero() {
				h.UpdatedAt = now
			}
			doc.putHabit(h)
		}
		for date, ids := range data.Completions {
			doc.replaceDay(date, ids)
		}
		for k, v := range data.Settings {
			doc.Settings[k] = append(json.RawMessage(nil), v...)
		}
		return nil
	})
}

func (s *Store) ClearAll(ctx context.Context) error {
	return s.mutate(func(doc *document) error {
		*doc = *newDocument()
		return nil
	})
}

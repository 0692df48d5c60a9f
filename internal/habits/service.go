// Package habits owns the habit lifecycle and the completion toggle protocol.
package habits

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Service caches habits and completions over a storage.Provider.
// Mutations are serialized by a mutex so toggles apply in call order.
type Service struct {
	store storage.Provider
	now   func() time.Time
	loc   *time.Location

	mu          sync.Mutex
	loaded      bool
	habits      []models.Habit
	completions models.CompletionMap

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSub     int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the timezone used to derive day keys.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New creates a Service. The cache is filled on first use or by Reload.
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:       store,
		now:         time.Now,
		loc:         time.Local,
		completions: models.CompletionMap{},
		subscribers: map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Location returns the timezone used for day keys.
func (s *Service) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// Today returns the current day key.
func (s *Service) Today() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayKey(s.now())
}

func (s *Service) dayKey(t time.Time) string {
	return utils.DayKeyIn(t, s.loc)
}

// Reload replaces the cache with the store's contents.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	err := s.reloadLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(Event{Type: EventReloaded})
	return nil
}

func (s *Service) reloadLocked(ctx context.Context) error {
	habits, err := s.store.ListHabits(ctx, "")
	if err != nil {
		return err
	}
	completions, err := s.store.ListCompletions(ctx, "", "")
	if err != nil {
		return err
	}
	s.habits = habits
	s.completions = completions
	s.loaded = true
	logger.Debug("Habit cache reloaded", "habits", len(habits), "days", len(completions))
	return nil
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.reloadLocked(ctx)
}

func (s *Service) indexOf(id string) int {
	for i := range s.habits {
		if s.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// AddHabit validates a draft and stores it with zeroed counters.
func (s *Service) AddHabit(ctx context.Context, draft models.Habit) (models.Habit, error) {
	s.mu.Lock()
	h, err := s.addHabitLocked(ctx, draft)
	s.mu.Unlock()
	if err != nil {
		return models.Habit{}, err
	}
	s.emit(Event{Type: EventHabitAdded, HabitID: h.ID})
	return h, nil
}

func (s *Service) addHabitLocked(ctx context.Context, draft models.Habit) (models.Habit, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Habit{}, err
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return models.Habit{}, err
	}
	if draft.ID != "" && s.indexOf(draft.ID) >= 0 {
		return models.Habit{}, apperrors.Invalid("habit %s already exists", draft.ID)
	}

	now := s.now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.Streak = 0
	draft.BestStreak = 0
	draft.TotalCompletions = 0
	draft.LastCompleted = ""

	h, err := s.store.PutHabit(ctx, draft)
	if err != nil {
		return models.Habit{}, err
	}
	s.habits = append(s.habits, h)
	logger.Info("Habit added", "habit_id", h.ID, "name", h.Name)
	return h, nil
}

// UpdateHabit merges patch into the habit and bumps UpdatedAt.
func (s *Service) UpdateHabit(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	s.mu.Lock()
	h, err := s.updateHabitLocked(ctx, id, patch)
	s.mu.Unlock()
	if err != nil {
		return models.Habit{}, err
	}
	s.emit(Event{Type: EventHabitUpdated, HabitID: id})
	return h, nil
}

func (s *Service) updateHabitLocked(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Habit{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}

	h := s.habits[i]
	patch.Apply(&h)
	h.Normalize()
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	h.UpdatedAt = s.now().UTC()

	stored, err := s.store.PutHabit(ctx, h)
	if err != nil {
		return models.Habit{}, err
	}
	s.habits[i] = stored
	return stored, nil
}

// DeleteHabit removes the habit. Its completion history is kept.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	err := s.deleteHabitLocked(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.emit(Event{Type: EventHabitDeleted, HabitID: id})
	return nil
}

func (s *Service) deleteHabitLocked(ctx context.Context, id string) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return apperrors.NotFound("habit", id)
	}
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	logger.Info("Habit deleted", "habit_id", id)
	return nil
}

// GetHabit returns the cached habit with id.
func (s *Service) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return models.Habit{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	return s.habits[i], nil
}

// ListHabits returns cached habits in creation order. An empty category lists all.
func (s *Service) ListHabits(ctx context.Context, category models.Category) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := []models.Habit{}
	for _, h := range s.habits {
		if category == "" || h.Category == category {
			out = append(out, h)
		}
	}
	return out, nil
}

// Habits returns a copy of the cached habits without touching the store.
func (s *Service) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Habit{}, s.habits...)
}

// RangeCompletions returns the completion records with start <= date <= end.
func (s *Service) RangeCompletions(ctx context.Context, start, end string) (models.CompletionMap, error) {
	return s.store.ListCompletions(ctx, start, end)
}

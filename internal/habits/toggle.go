package habits

import (
	"context"
	"time"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/streak"
)

// ToggleCompletion flips the habit's membership in the day containing onDate
// and recomputes its counters. It returns the day's record after the change.
func (s *Service) ToggleCompletion(ctx context.Context, habitID string, onDate time.Time) (models.DayCompletion, error) {
	s.mu.Lock()
	day, changed, err := s.toggleLocked(ctx, habitID, onDate, toggleFlip)
	s.mu.Unlock()
	if err != nil {
		return models.DayCompletion{}, err
	}
	if changed {
		s.emit(Event{Type: EventCompletionToggled, HabitID: habitID, Date: day.Date})
	}
	return day, nil
}

// MarkComplete completes the habit on the day containing onDate.
// It is a no-op when the habit is already complete that day.
func (s *Service) MarkComplete(ctx context.Context, habitID string, onDate time.Time) (models.DayCompletion, error) {
	s.mu.Lock()
	day, changed, err := s.toggleLocked(ctx, habitID, onDate, toggleComplete)
	s.mu.Unlock()
	if err != nil {
		return models.DayCompletion{}, err
	}
	if changed {
		s.emit(Event{Type: EventCompletionToggled, HabitID: habitID, Date: day.Date})
	}
	return day, nil
}

// MarkIncomplete clears the habit's completion on the day containing onDate.
// When the habit was not complete it returns an empty DayCompletion and no error.
func (s *Service) MarkIncomplete(ctx context.Context, habitID string, onDate time.Time) (models.DayCompletion, error) {
	s.mu.Lock()
	day, changed, err := s.toggleLocked(ctx, habitID, onDate, toggleIncomplete)
	s.mu.Unlock()
	if err != nil {
		return models.DayCompletion{}, err
	}
	if !changed {
		return models.DayCompletion{}, nil
	}
	s.emit(Event{Type: EventCompletionToggled, HabitID: habitID, Date: day.Date})
	return day, nil
}

type toggleMode int

const (
	toggleFlip toggleMode = iota
	toggleComplete
	toggleIncomplete
)

func (s *Service) toggleLocked(ctx context.Context, habitID string, onDate time.Time, mode toggleMode) (models.DayCompletion, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.DayCompletion{}, false, err
	}
	i := s.indexOf(habitID)
	if i < 0 {
		return models.DayCompletion{}, false, apperrors.NotFound("habit", habitID)
	}
	key := s.dayKey(onDate)

	members, err := s.store.GetDayCompletion(ctx, key)
	if err != nil {
		return models.DayCompletion{}, false, err
	}
	day := models.DayCompletion{Date: key, Habits: members}
	isMember := day.Contains(habitID)

	complete := !isMember
	switch mode {
	case toggleComplete:
		if isMember {
			return day, false, nil
		}
	case toggleIncomplete:
		if !isMember {
			return day, false, nil
		}
	}

	if complete {
		if err := s.store.AddCompletionMember(ctx, key, habitID); err != nil {
			return models.DayCompletion{}, false, err
		}
	} else {
		if err := s.store.RemoveCompletionMember(ctx, key, habitID); err != nil {
			return models.DayCompletion{}, false, err
		}
	}

	members, err = s.store.GetDayCompletion(ctx, key)
	if err != nil {
		return models.DayCompletion{}, false, err
	}
	if len(members) == 0 {
		delete(s.completions, key)
	} else {
		s.completions[key] = members
	}

	h := s.habits[i]
	h.Streak = streak.Current(s.completions, habitID, key)
	if complete {
		if h.Streak > h.BestStreak {
			h.BestStreak = h.Streak
		}
		h.TotalCompletions++
		h.LastCompleted = key
	} else {
		h.TotalCompletions--
		if h.TotalCompletions < 0 {
			h.TotalCompletions = 0
		}
	}
	h.UpdatedAt = s.now().UTC()

	stored, err := s.store.PutHabit(ctx, h)
	if err != nil {
		// The membership is already committed; resync with whatever the store holds.
		if reloadErr := s.reloadLocked(ctx); reloadErr != nil {
			logger.Warn("Failed to reload habits after a failed counter write", "habit_id", habitID, "error", reloadErr)
		}
		return models.DayCompletion{}, false, err
	}
	s.habits[i] = stored

	logger.Debug("Completion toggled", "habit_id", habitID, "date", key, "complete", complete, "streak", stored.Streak)
	return models.DayCompletion{Date: key, Habits: members}, true, nil
}

// IsCompleted reports whether the habit is complete on the day containing on.
func (s *Service) IsCompleted(ctx context.Context, habitID string, on time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return false, err
	}
	return s.completions.Has(s.dayKey(on), habitID), nil
}

// CurrentStreak recomputes the habit's streak as of the day containing on.
func (s *Service) CurrentStreak(ctx context.Context, habitID string, on time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return streak.Current(s.completions, habitID, s.dayKey(on)), nil
}

// LongestStreak returns the longest run of consecutive completed days for
// habitID anywhere in the history.
func (s *Service) LongestStreak(ctx context.Context, habitID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return streak.Longest(s.completions, habitID), nil
}

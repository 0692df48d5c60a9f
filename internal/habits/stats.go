package habits

import (
	"context"
	"time"

	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/streak"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Stats summarizes the tracker as of one day.
type Stats struct {
	Date           string
	TotalHabits    int
	CompletedToday int
	CompletionRate float64
	MaxStreak      int
	MaxBestStreak  int
}

// DayRate is the completion rate of a single day.
type DayRate struct {
	Date string
	Rate float64
}

// CategoryGroup is the habits of one category in creation order.
type CategoryGroup struct {
	Category models.Category
	Habits   []models.Habit
}

// DailyCompletionRate returns the share of current habits completed on date.
// Members that no longer name a habit are not counted. With no habits it is 0.
func (s *Service) DailyCompletionRate(ctx context.Context, date string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	_, rate := s.rateLocked(date)
	return rate, nil
}

func (s *Service) rateLocked(date string) (int, float64) {
	if len(s.habits) == 0 {
		return 0, 0
	}
	done := 0
	for _, h := range s.habits {
		if s.completions.Has(date, h.ID) {
			done++
		}
	}
	return done, float64(done) / float64(len(s.habits))
}

// Stats returns totals for the day containing on. Streaks are recomputed
// from history rather than read from the stored counters.
func (s *Service) Stats(ctx context.Context, on time.Time) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return Stats{}, err
	}

	key := s.dayKey(on)
	done, rate := s.rateLocked(key)
	st := Stats{
		Date:           key,
		TotalHabits:    len(s.habits),
		CompletedToday: done,
		CompletionRate: rate,
	}
	for _, h := range s.habits {
		if cur := streak.Current(s.completions, h.ID, key); cur > st.MaxStreak {
			st.MaxStreak = cur
		}
		if h.BestStreak > st.MaxBestStreak {
			st.MaxBestStreak = h.BestStreak
		}
	}
	return st, nil
}

// WeekRates returns the seven daily rates of the Sunday-based week containing
// on, shifted by weekOffset weeks.
func (s *Service) WeekRates(ctx context.Context, on time.Time, weekOffset int) ([]DayRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	start, _ := utils.WeekRange(on, s.loc, weekOffset)
	rates := make([]DayRate, 0, 7)
	for i := 0; i < 7; i++ {
		date, err := utils.AddDays(start, i)
		if err != nil {
			return nil, err
		}
		_, rate := s.rateLocked(date)
		rates = append(rates, DayRate{Date: date, Rate: rate})
	}
	return rates, nil
}

// GroupByCategory groups cached habits in category order, skipping empty groups.
func (s *Service) GroupByCategory() []CategoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCategory := make(map[models.Category][]models.Habit)
	for _, h := range s.habits {
		byCategory[h.Category] = append(byCategory[h.Category], h)
	}

	var groups []CategoryGroup
	for _, c := range models.Categories {
		if habits := byCategory[c]; len(habits) > 0 {
			groups = append(groups, CategoryGroup{Category: c, Habits: habits})
		}
	}
	return groups
}

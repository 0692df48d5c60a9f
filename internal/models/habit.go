package models

import (
	"strings"
	"time"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         Category  `json:"category"`
	Frequency        Frequency `json:"frequency"`
	Time             string    `json:"time,omitempty"` // HH:MM reminder, descriptive only
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Streak           int       `json:"streak"`
	BestStreak       int       `json:"bestStreak"`
	TotalCompletions int       `json:"totalCompletions"`
	LastCompleted    string    `json:"lastCompleted,omitempty"` // day key
}

// Validate checks the user-editable fields of a habit.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return apperrors.Invalid("habit name cannot be empty")
	}
	if h.Time != "" && !utils.ValidateTimeFormat(h.Time) {
		return apperrors.Invalid("invalid habit time %q (expected HH:MM)", h.Time)
	}
	if h.LastCompleted != "" && !utils.ValidDayKey(h.LastCompleted) {
		return apperrors.Invalid("invalid last completed date %q (expected YYYY-MM-DD)", h.LastCompleted)
	}
	return nil
}

// Normalize trims the name and folds unknown category and frequency labels
// onto their fallbacks. Negative counters are clamped to zero.
func (h *Habit) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	h.Category = ParseCategory(string(h.Category))
	h.Frequency = ParseFrequency(string(h.Frequency))
	if h.Streak < 0 {
		h.Streak = 0
	}
	if h.BestStreak < h.Streak {
		h.BestStreak = h.Streak
	}
	if h.TotalCompletions < 0 {
		h.TotalCompletions = 0
	}
}

// HabitPatch carries the fields of an update; nil fields are left unchanged.
type HabitPatch struct {
	Name        *string
	Category    *Category
	Frequency   *Frequency
	Time        *string
	Description *string
}

// Apply merges the non-nil fields of p into h.
func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Category != nil {
		h.Category = ParseCategory(string(*p.Category))
	}
	if p.Frequency != nil {
		h.Frequency = ParseFrequency(string(*p.Frequency))
	}
	if p.Time != nil {
		h.Time = *p.Time
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
}

// Empty reports whether the patch changes nothing.
func (p HabitPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Frequency == nil && p.Time == nil && p.Description == nil
}

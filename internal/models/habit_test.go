package models

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
)

func TestHabit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		wantErr bool
	}{
		{
			name:    "valid habit",
			habit:   Habit{Name: "Read", Category: CategoryLearning},
			wantErr: false,
		},
		{
			name:    "valid habit with time",
			habit:   Habit{Name: "Run", Time: "06:30"},
			wantErr: false,
		},
		{
			name:    "empty name",
			habit:   Habit{Name: ""},
			wantErr: true,
		},
		{
			name:    "whitespace name",
			habit:   Habit{Name: "   "},
			wantErr: true,
		},
		{
			name:    "bad time",
			habit:   Habit{Name: "Run", Time: "6.30am"},
			wantErr: true,
		},
		{
			name:    "bad last completed",
			habit:   Habit{Name: "Run", LastCompleted: "01/02/2024"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.habit.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrFormat) {
				t.Errorf("Validate() error kind = %v, want ErrFormat", err)
			}
		})
	}
}

func TestHabit_Normalize(t *testing.T) {
	h := Habit{
		Name:             "  Meditate ",
		Category:         "spiritual",
		Frequency:        "",
		Streak:           4,
		BestStreak:       2,
		TotalCompletions: -3,
	}
	h.Normalize()

	if h.Name != "Meditate" {
		t.Errorf("Name = %q, want %q", h.Name, "Meditate")
	}
	if h.Category != CategoryOther {
		t.Errorf("Category = %q, want %q", h.Category, CategoryOther)
	}
	if h.Frequency != FrequencyDaily {
		t.Errorf("Frequency = %q, want %q", h.Frequency, FrequencyDaily)
	}
	if h.BestStreak != 4 {
		t.Errorf("BestStreak = %d, want 4", h.BestStreak)
	}
	if h.TotalCompletions != 0 {
		t.Errorf("TotalCompletions = %d, want 0", h.TotalCompletions)
	}
}

func TestHabitPatch_Apply(t *testing.T) {
	h := Habit{Name: "Read", Category: CategoryLearning, Description: "ten pages"}
	name := "Read more"
	cat := Category("bogus")

	patch := HabitPatch{Name: &name, Category: &cat}
	if patch.Empty() {
		t.Fatal("Empty() = true for a patch with fields")
	}
	patch.Apply(&h)

	if h.Name != "Read more" {
		t.Errorf("Name = %q", h.Name)
	}
	if h.Category != CategoryOther {
		t.Errorf("Category = %q, want other", h.Category)
	}
	if h.Description != "ten pages" {
		t.Errorf("Description changed to %q", h.Description)
	}
	if !(HabitPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"health", CategoryHealth},
		{"Fitness", CategoryFitness},
		{" mindfulness ", CategoryMindfulness},
		{"", CategoryOther},
		{"hobby", CategoryOther},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAIProvider(t *testing.T) {
	tests := []struct {
		in   string
		want AIProvider
	}{
		{"openai", AIProviderOpenAI},
		{"Anthropic", AIProviderAnthropic},
		{"none", AIProviderNone},
		{"gemini", AIProviderNone},
		{"", AIProviderNone},
	}
	for _, tt := range tests {
		if got := ParseAIProvider(tt.in); got != tt.want {
			t.Errorf("ParseAIProvider(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	if ParseFrequency("weekly") != FrequencyWeekly {
		t.Error("weekly not parsed")
	}
	if ParseFrequency("monthly") != FrequencyDaily {
		t.Error("unknown frequency should fall back to daily")
	}
}

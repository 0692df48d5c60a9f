package models

import "strings"

// Category groups habits for display and filtering.
type Category string

const (
	CategoryHealth      Category = "health"
	CategoryFitness     Category = "fitness"
	CategoryLearning    Category = "learning"
	CategoryFamily      Category = "family"
	CategoryWork        Category = "work"
	CategoryMindfulness Category = "mindfulness"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryLearning,
	CategoryFamily,
	CategoryWork,
	CategoryMindfulness,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps a label to a Category. Unknown or empty labels become CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Frequency describes how often a habit is meant to be done. It does not
// change how streaks are computed.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// ParseFrequency maps a label to a Frequency, defaulting to daily.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyWeekly:
		return FrequencyWeekly
	default:
		return FrequencyDaily
	}
}

// AIProvider names the assistant backend selected in settings.
type AIProvider string

const (
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderNone      AIProvider = "none"
)

// ParseAIProvider maps a label to an AIProvider, defaulting to none.
func ParseAIProvider(s string) AIProvider {
	switch p := AIProvider(strings.ToLower(strings.TrimSpace(s))); p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return p
	default:
		return AIProviderNone
	}
}

package models

import "sort"

// DayCompletion is the set of habits completed on one local calendar day.
type DayCompletion struct {
	Date   string   `json:"date"` // YYYY-MM-DD
	Habits []string `json:"habits"`
}

// Contains reports whether habitID is a member of the day's set.
func (d DayCompletion) Contains(habitID string) bool {
	for _, id := range d.Habits {
		if id == habitID {
			return true
		}
	}
	return false
}

// CompletionMap maps a day key to the habit ids completed on that day.
// Days without completions are absent.
type CompletionMap map[string][]string

// Has reports whether habitID is recorded for date.
func (m CompletionMap) Has(date, habitID string) bool {
	for _, id := range m[date] {
		if id == habitID {
			return true
		}
	}
	return false
}

// Dates returns the keys of m in chronological order.
func (m CompletionMap) Dates() []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy of m.
func (m CompletionMap) Clone() CompletionMap {
	out := make(CompletionMap, len(m))
	for d, ids := range m {
		out[d] = append([]string(nil), ids...)
	}
	return out
}

// UniqueIDs returns ids with duplicates and empty strings removed, keeping first occurrence order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

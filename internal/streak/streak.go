// Package streak derives consecutive-day statistics from completion records.
package streak

import (
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Current counts the consecutive days ending at asOf on which habitID was completed.
// It is 0 when asOf itself has no completion or is not a valid day key.
// The completions map is never modified.
func Current(completions models.CompletionMap, habitID, asOf string) int {
	if !utils.ValidDayKey(asOf) {
		return 0
	}

	count := 0
	day := asOf
	for completions.Has(day, habitID) {
		count++
		prev, err := utils.AddDays(day, -1)
		if err != nil {
			break
		}
		day = prev
	}
	return count
}

// Longest returns the longest run of consecutive completed days for habitID
// anywhere in completions.
func Longest(completions models.CompletionMap, habitID string) int {
	best, run := 0, 0
	prev := ""
	for _, day := range completions.Dates() {
		if !completions.Has(day, habitID) {
			continue
		}
		if next, err := utils.AddDays(prev, 1); prev != "" && err == nil && next == day {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}

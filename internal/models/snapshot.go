package models

import (
	"encoding/json"
)

// Snapshot is the portable export document.
type Snapshot struct {
	Version    int           `json:"version"`
	ExportDate string        `json:"exportDate"`
	Data       *SnapshotData `json:"data"`
}

// SnapshotData holds every persisted collection.
type SnapshotData struct {
	Habits      []Habit                    `json:"habits"`
	Completions CompletionMap              `json:"completions"`
	Settings    map[string]json.RawMessage `json:"settings"`
}

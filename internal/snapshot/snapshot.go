// Package snapshot exports and imports the portable backup document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/trackmy/internal/constants"
	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Export reads every collection from store into a versioned document.
func Export(ctx context.Context, store storage.Provider, now time.Time) (models.Snapshot, error) {
	data, err := store.ExportData(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to export data: %w", err)
	}
	if data.Habits == nil {
		data.Habits = []models.Habit{}
	}
	if data.Completions == nil {
		data.Completions = models.CompletionMap{}
	}
	if data.Settings == nil {
		data.Settings = map[string]json.RawMessage{}
	}

	return models.Snapshot{
		Version:    constants.SnapshotVersion,
		ExportDate: now.UTC().Format(constants.ExportDateTimeFormat),
		Data:       &data,
	}, nil
}

// Decode parses a document. Malformed JSON and a missing data section are FormatErrors.
func Decode(r io.Reader) (models.Snapshot, error) {
	var doc models.Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return models.Snapshot{}, &apperrors.FormatError{Reason: "invalid import document", Err: err}
	}
	if doc.Data == nil {
		return models.Snapshot{}, apperrors.Invalid("invalid import document: missing data")
	}
	return doc, nil
}

// Import writes doc into store with overwrite semantics: habits by id,
// day sets by date and settings by key. Records absent from doc are kept.
func Import(ctx context.Context, store storage.Provider, doc models.Snapshot) error {
	if doc.Data == nil {
		return apperrors.Invalid("invalid import document: missing data")
	}

	data, err := normalize(*doc.Data)
	if err != nil {
		return err
	}

	if err := store.ImportData(ctx, data); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	logger.Info("Snapshot imported",
		"version", doc.Version,
		"habits", len(data.Habits),
		"days", len(data.Completions),
		"settings", len(data.Settings))
	return nil
}

// normalize repairs imported values the model allows falling back on and
// rejects the ones it does not.
func normalize(in models.SnapshotData) (models.SnapshotData, error) {
	out := models.SnapshotData{
		Habits:      make([]models.Habit, 0, len(in.Habits)),
		Completions: make(models.CompletionMap, len(in.Completions)),
		Settings:    make(map[string]json.RawMessage, len(in.Settings)),
	}

	for i, h := range in.Habits {
		if h.ID == "" {
			return models.SnapshotData{}, apperrors.Invalid("invalid import document: habit %d has no id", i)
		}
		h.Normalize()
		if err := h.Validate(); err != nil {
			return models.SnapshotData{}, &apperrors.FormatError{Reason: fmt.Sprintf("invalid import document: habit %s", h.ID), Err: err}
		}
		out.Habits = append(out.Habits, h)
	}

	for date, ids := range in.Completions {
		if !utils.ValidDayKey(date) {
			return models.SnapshotData{}, apperrors.Invalid("invalid import document: bad completion date %q", date)
		}
		out.Completions[date] = models.UniqueIDs(ids)
	}

	for key, value := range in.Settings {
		if key == "" {
			return models.SnapshotData{}, apperrors.Invalid("invalid import document: empty setting key")
		}
		if !json.Valid(value) {
			return models.SnapshotData{}, apperrors.Invalid("invalid import document: setting %s is not valid JSON", key)
		}
		out.Settings[key] = value
	}

	return out, nil
}

// ClearAll empties every collection. Callers must reload their caches.
func ClearAll(ctx context.Context, store storage.Provider) error {
	if err := store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	logger.Info("All data cleared", "location", store.Location())
	return nil
}

// WriteFile encodes doc as indented JSON and replaces path atomically.
func WriteFile(path string, doc models.Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	return utils.WriteFileAtomic(path, buf.Bytes(), 0o600)
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// DefaultFileName returns the export file name for the given day.
func DefaultFileName(now time.Time, loc *time.Location) string {
	return constants.ExportFilePrefix + utils.DayKeyIn(now, loc) + constants.ExportFileSuffix
}

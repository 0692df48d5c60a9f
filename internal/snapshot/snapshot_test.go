package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackmy/internal/constants"
	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/storage/jsonfile"
	"github.com/julianstephens/trackmy/internal/storage/sqlite"
)

func setupTestSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seed(t *testing.T, put func(models.Habit) (models.Habit, error), add func(date, id string) error) []models.Habit {
	t.Helper()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	drafts := []models.Habit{
		{ID: "h1", Name: "Run", Category: models.CategoryFitness, Frequency: models.FrequencyDaily, Time: "07:30",
			CreatedAt: created, UpdatedAt: created, Streak: 2, BestStreak: 3, TotalCompletions: 5, LastCompleted: "2024-01-03"},
		{ID: "h2", Name: "Read", Category: models.CategoryLearning, Frequency: models.FrequencyWeekly, Description: "20 pages",
			CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour)},
	}
	var out []models.Habit
	for _, d := range drafts {
		h, err := put(d)
		require.NoError(t, err)
		out = append(out, h)
	}
	require.NoError(t, add("2024-01-01", "h1"))
	require.NoError(t, add("2024-01-02", "h1"))
	require.NoError(t, add("2024-01-02", "h2"))
	require.NoError(t, add("2024-01-03", "h1"))
	return out
}

func TestExportShape(t *testing.T) {
	ctx := context.Background()
	store := setupTestSQLiteStore(t)
	seed(t,
		func(h models.Habit) (models.Habit, error) { return store.PutHabit(ctx, h) },
		func(d, id string) error { return store.AddCompletionMember(ctx, d, id) })
	require.NoError(t, store.PutSetting(ctx, constants.SettingTimezone, json.RawMessage(`"UTC"`)))

	now := time.Date(2024, 1, 4, 12, 30, 15, 250_000_000, time.FixedZone("EST", -5*3600))
	doc, err := Export(ctx, store, now)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "2024-01-04T17:30:15.250Z", doc.ExportDate)
	require.NotNil(t, doc.Data)
	assert.Len(t, doc.Data.Habits, 2)
	assert.Len(t, doc.Data.Completions, 3)
	assert.Equal(t, []string{"h1", "h2"}, doc.Data.Completions["2024-01-02"])
	assert.JSONEq(t, `"UTC"`, string(doc.Data.Settings[constants.SettingTimezone]))

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"version", "exportDate", "data"} {
		assert.Contains(t, generic, key)
	}
	data := generic["data"].(map[string]interface{})
	for _, key := range []string{"habits", "completions", "settings"} {
		assert.Contains(t, data, key)
	}
	habit := data["habits"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"id", "name", "category", "frequency", "createdAt", "updatedAt", "streak", "bestStreak", "totalCompletions"} {
		assert.Contains(t, habit, key)
	}
}

func TestExportEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := setupTestSQLiteStore(t)

	doc, err := Export(ctx, store, time.Now())
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"habits":[]`)
	assert.Contains(t, string(raw), `"completions":{}`)
	assert.Contains(t, string(raw), `"settings":{}`)
}

// Export, clear, import must leave habits, completions and settings unchanged.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestSQLiteStore(t)
	before := seed(t,
		func(h models.Habit) (models.Habit, error) { return store.PutHabit(ctx, h) },
		func(d, id string) error { return store.AddCompletionMember(ctx, d, id) })
	require.NoError(t, store.PutSetting(ctx, constants.SettingAIProvider, json.RawMessage(`"anthropic"`)))

	doc, err := Export(ctx, store, time.Now())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), DefaultFileName(time.Now(), time.UTC))
	require.NoError(t, WriteFile(path, doc))

	require.NoError(t, ClearAll(ctx, store))
	habits, err := store.ListHabits(ctx, "")
	require.NoError(t, err)
	require.Empty(t, habits)

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, Import(ctx, store, loaded))

	after, err := store.ListHabits(ctx, "")
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.Equal(t, before[i].Category, after[i].Category)
		assert.Equal(t, before[i].Frequency, after[i].Frequency)
		assert.Equal(t, before[i].Time, after[i].Time)
		assert.Equal(t, before[i].Description, after[i].Description)
		assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt))
		assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
		assert.Equal(t, before[i].Streak, after[i].Streak)
		assert.Equal(t, before[i].BestStreak, after[i].BestStreak)
		assert.Equal(t, before[i].TotalCompletions, after[i].TotalCompletions)
		assert.Equal(t, before[i].LastCompleted, after[i].LastCompleted)
	}

	completions, err := store.ListCompletions(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, doc.Data.Completions, completions)

	value, err := store.GetSetting(ctx, constants.SettingAIProvider)
	require.NoError(t, err)
	assert.JSONEq(t, `"anthropic"`, string(value))
}

func TestImportOverwritesWithoutUnion(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, store.Init(ctx))

	_, err := store.PutHabit(ctx, models.Habit{ID: "h1", Name: "Local name", Category: models.CategoryHealth})
	require.NoError(t, err)
	_, err = store.PutHabit(ctx, models.Habit{ID: "keep", Name: "Untouched"})
	require.NoError(t, err)
	require.NoError(t, store.AddCompletionMember(ctx, "2024-02-01", "keep"))
	require.NoError(t, store.AddCompletionMember(ctx, "2024-02-01", "h1"))

	doc := models.Snapshot{
		Version: 1,
		Data: &models.SnapshotData{
			Habits: []models.Habit{{ID: "h1", Name: "Imported name", Category: "gardening"}},
			Completions: models.CompletionMap{
				"2024-02-01": {"h1", "h1", ""},
			},
		},
	}
	require.NoError(t, Import(ctx, store, doc))

	h1, err := store.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Imported name", h1.Name)
	assert.Equal(t, models.CategoryOther, h1.Category)
	assert.Equal(t, models.FrequencyDaily, h1.Frequency)

	_, err = store.GetHabit(ctx, "keep")
	require.NoError(t, err)

	day, err := store.GetDayCompletion(ctx, "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, day)
}

func TestImportRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	store := setupTestSQLiteStore(t)

	tests := []struct {
		name string
		doc  models.Snapshot
	}{
		{name: "missing data", doc: models.Snapshot{Version: 1}},
		{name: "habit without id", doc: models.Snapshot{Data: &models.SnapshotData{Habits: []models.Habit{{Name: "x"}}}}},
		{name: "habit without name", doc: models.Snapshot{Data: &models.SnapshotData{Habits: []models.Habit{{ID: "x"}}}}},
		{name: "bad date", doc: models.Snapshot{Data: &models.SnapshotData{Completions: models.CompletionMap{"2024-13-01": {"h1"}}}}},
		{name: "bad setting", doc: models.Snapshot{Data: &models.SnapshotData{Settings: map[string]json.RawMessage{"k": json.RawMessage(`{`)}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Import(ctx, store, tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrFormat)
		})
	}

	habits, err := store.ListHabits(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, habits, "rejected documents must not write anything")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: `{"version":1,"exportDate":"2024-01-01T00:00:00.000Z","data":{"habits":[],"completions":{},"settings":{}}}`},
		{name: "empty data", input: `{"version":1,"data":{}}`},
		{name: "no data", input: `{"version":1}`, wantErr: true},
		{name: "null data", input: `{"version":1,"data":null}`, wantErr: true},
		{name: "not json", input: `version: 1`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrFormat)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "track-my-backup-2024-03-09.json", DefaultFileName(now, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "track-my-backup-2024-03-10.json", DefaultFileName(now, tokyo))
}

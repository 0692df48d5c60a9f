package postgres

import (
	"context"
	"encoding/json"
	"os"
	"reflect"
	"testing"
	"time"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
)

// TestStore_Integration tests the PostgreSQL store with a real database
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://trackmy_user@localhost:5432/trackmy_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()

	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.ClearAll(ctx); err != nil {
		t.Fatalf("Failed to clear store: %v", err)
	}

	t.Run("Habits", func(t *testing.T) {
		created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		h, err := store.PutHabit(ctx, models.Habit{Name: "Read", Category: models.CategoryLearning, CreatedAt: created})
		if err != nil {
			t.Fatalf("Failed to put habit: %v", err)
		}

		got, err := store.GetHabit(ctx, h.ID)
		if err != nil {
			t.Fatalf("Failed to get habit: %v", err)
		}
		if got.Name != "Read" || !got.CreatedAt.Equal(created) {
			t.Errorf("GetHabit() = %+v", got)
		}

		if err := store.DeleteHabit(ctx, h.ID); err != nil {
			t.Fatalf("Failed to delete habit: %v", err)
		}
		if _, err := store.GetHabit(ctx, h.ID); !apperrors.IsNotFound(err) {
			t.Errorf("GetHabit() after delete error = %v", err)
		}
	})

	t.Run("Completions", func(t *testing.T) {
		day := "2024-01-02"
		for _, id := range []string{"a", "b", "a"} {
			if err := store.AddCompletionMember(ctx, day, id); err != nil {
				t.Fatalf("Failed to add member: %v", err)
			}
		}
		ids, err := store.GetDayCompletion(ctx, day)
		if err != nil {
			t.Fatalf("Failed to get day: %v", err)
		}
		if !reflect.DeepEqual(ids, []string{"a", "b"}) {
			t.Errorf("GetDayCompletion() = %v", ids)
		}

		m, err := store.ListCompletions(ctx, "2024-01-01", "2024-01-31")
		if err != nil {
			t.Fatalf("Failed to list completions: %v", err)
		}
		if len(m[day]) != 2 {
			t.Errorf("ListCompletions() = %v", m)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		if err := store.PutSetting(ctx, "timezone", json.RawMessage(`"UTC"`)); err != nil {
			t.Fatalf("Failed to put setting: %v", err)
		}
		got, err := store.GetSetting(ctx, "timezone")
		if err != nil {
			t.Fatalf("Failed to get setting: %v", err)
		}
		if string(got) != `"UTC"` {
			t.Errorf("GetSetting() = %s", got)
		}
	})

	t.Run("ExportImport", func(t *testing.T) {
		data, err := store.ExportData(ctx)
		if err != nil {
			t.Fatalf("Failed to export: %v", err)
		}
		if err := store.ClearAll(ctx); err != nil {
			t.Fatalf("Failed to clear: %v", err)
		}
		if err := store.ImportData(ctx, data); err != nil {
			t.Fatalf("Failed to import: %v", err)
		}
		again, err := store.ExportData(ctx)
		if err != nil {
			t.Fatalf("Failed to export again: %v", err)
		}
		if !reflect.DeepEqual(again.Completions, data.Completions) {
			t.Errorf("completions changed across round trip: %v vs %v", again.Completions, data.Completions)
		}
	})
}

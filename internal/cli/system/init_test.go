package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/config"
	"github.com/julianstephens/trackmy/internal/constants"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/jsonfile"
	"github.com/julianstephens/trackmy/internal/storage/sqlite"
)

func newTestContext(t *testing.T, store storage.Provider) *cli.Context {
	t.Helper()
	cfg := &config.Config{
		Dir:      filepath.Dir(store.Location()),
		Backend:  storage.DetectBackend(store.Location()),
		Path:     store.Location(),
		Timezone: "UTC",
	}
	ctx, err := cli.NewContext(context.Background(), store, cfg)
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	ctx.Confirm = func(string, string) (bool, error) { return true, nil }
	return ctx
}

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return newTestContext(t, store), dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if _, err := ctx.Service.AddHabit(ctx.Ctx, models.Habit{Name: "Read"}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	habits, err := ctx.Service.ListHabits(ctx.Ctx, "")
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected an empty store after --force, got %d habits", len(habits))
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("database file should not exist initially")
	}
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected an error when source and destination are the same")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	bg := context.Background()
	srcPath := filepath.Join(t.TempDir(), "source.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(bg); err != nil {
		t.Fatalf("source Init() error = %v", err)
	}
	habit, err := src.PutHabit(bg, models.Habit{Name: "Stretch", Category: models.CategoryHealth, Frequency: models.FrequencyDaily})
	if err != nil {
		t.Fatalf("PutHabit() error = %v", err)
	}
	if err := src.AddCompletionMember(bg, "2024-01-05", habit.ID); err != nil {
		t.Fatalf("AddCompletionMember() error = %v", err)
	}
	if err := src.PutSetting(bg, constants.SettingTimezone, []byte(`"UTC"`)); err != nil {
		t.Fatalf("PutSetting() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("source Close() error = %v", err)
	}

	dest := jsonfile.NewStore(filepath.Join(t.TempDir(), "trackmy.json"))
	ctx := newTestContext(t, dest)
	defer dest.Close()

	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	got, err := ctx.Service.GetHabit(ctx.Ctx, habit.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Name != "Stretch" {
		t.Errorf("copied habit name = %q, want Stretch", got.Name)
	}
	done, err := ctx.Service.IsCompleted(ctx.Ctx, habit.ID, time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
	if err != nil || !done {
		t.Errorf("IsCompleted() = %v, %v; want the copied completion", done, err)
	}
	if _, err := dest.GetSetting(ctx.Ctx, constants.SettingTimezone); err != nil {
		t.Errorf("copied setting missing: %v", err)
	}
}

func TestInitCmd_MissingSource(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	missing := filepath.Join(t.TempDir(), "missing.db")
	if err := (&InitCmd{Source: missing}).Run(ctx); err == nil {
		t.Error("expected an error for a missing source database")
	}
}

func TestMigrateCmd(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Errorf("migrate on an up-to-date database failed: %v", err)
	}
}

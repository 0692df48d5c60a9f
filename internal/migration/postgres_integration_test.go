package migration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
)

// setupPostgresTestDB creates a test PostgreSQL database connection
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) (*sql.DB, func()) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	cleanup := func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS test_completions")
		db.Exec("DROP TABLE IF EXISTS test_habits")
		db.Close()
	}

	return db, cleanup
}

// TestPostgresSetVersion verifies SetVersion works with PostgreSQL $1 placeholders
func TestPostgresSetVersion(t *testing.T) {
	db, cleanup := setupPostgresTestDB(t)
	defer cleanup()
	ctx := context.Background()

	runner, err := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql": "CREATE TABLE test_habits (id TEXT PRIMARY KEY);",
	}), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	for _, want := range []int{1, 2} {
		if err := runner.SetVersion(ctx, want); err != nil {
			t.Fatalf("SetVersion(%d) failed: %v", want, err)
		}
		got, err := runner.GetCurrentVersion(ctx)
		if err != nil {
			t.Fatalf("GetCurrentVersion failed: %v", err)
		}
		if got != want {
			t.Errorf("expected version %d, got %d", want, got)
		}
	}
}

// TestPostgresApplyMigrations verifies ApplyMigrations works with PostgreSQL $1 placeholders
func TestPostgresApplyMigrations(t *testing.T) {
	db, cleanup := setupPostgresTestDB(t)
	defer cleanup()
	ctx := context.Background()

	runner, err := NewRunner(db, setupTestMigrations(map[string]string{
		"001_init.sql": `
			CREATE TABLE test_habits (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL
			);
		`,
		"002_completions.sql": `
			CREATE TABLE test_completions (
				date TEXT NOT NULL,
				habit_id TEXT NOT NULL,
				PRIMARY KEY (date, habit_id)
			);
		`,
	}), DriverPostgres)
	if err != nil {
		t.Fatalf("failed to create migration runner: %v", err)
	}

	count, err := runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	var exists bool
	err = db.QueryRow("SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'test_completions')").Scan(&exists)
	if err != nil {
		t.Fatalf("failed to check test_completions table: %v", err)
	}
	if !exists {
		t.Error("test_completions table was not created")
	}

	count, err = runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", count)
	}
}

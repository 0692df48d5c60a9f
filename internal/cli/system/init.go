package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete all existing data before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	location := ctx.Store.Location()
	_, isPostgres := ctx.Store.(*postgres.Store)

	if c.Force && c.Source != "" && samePath(location, c.Source) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", location)
	}

	if c.Force && !isPostgres {
		if _, err := os.Stat(location); err == nil {
			// Close first so the file is not held open while it is removed.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(location); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", location)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		return err
	}

	if c.Force && isPostgres {
		if err := ctx.Store.ClearAll(ctx.Ctx); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
		fmt.Println("Cleared existing data")
	}
	fmt.Printf("Initialized trackmy storage at: %s\n", location)

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("%s Migration completed successfully\n", cli.SuccessStyle.Render("✓"))
	}

	return ctx.Service.Reload(ctx.Ctx)
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := storage.Open(storage.Config{Path: c.Source})
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if err := source.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	data, err := source.ExportData(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read source data: %w", err)
	}
	if err := ctx.Store.ImportData(ctx.Ctx, data); err != nil {
		return fmt.Errorf("failed to write destination data: %w", err)
	}

	fmt.Printf("  Migrated %d habits\n", len(data.Habits))
	fmt.Printf("  Migrated %d completion days\n", len(data.Completions))
	fmt.Printf("  Migrated %d settings\n", len(data.Settings))
	return nil
}

func samePath(a, b string) bool {
	if storage.IsPostgresURL(a) || storage.IsPostgresURL(b) {
		return a == b
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

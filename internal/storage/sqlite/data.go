package sqlite

import (
	"context"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
)

// ExportData reads every collection inside one transaction.
func (s *Store) ExportData(ctx context.Context) (models.SnapshotData, error) {
	if err := s.ready(); err != nil {
		return models.SnapshotData{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.SnapshotData{}, apperrors.Storage("export data", err)
	}
	defer func() { _ = tx.Rollback() }()

	habits, err := queryHabits(ctx, tx, `SELECT `+habitColumns+` FROM habits ORDER BY created_at, rowid`)
	if err != nil {
		return models.SnapshotData{}, err
	}
	completions, err := listCompletions(ctx, tx, "", "")
	if err != nil {
		return models.SnapshotData{}, err
	}
	settings, err := listSettings(ctx, tx)
	if err != nil {
		return models.SnapshotData{}, err
	}

	return models.SnapshotData{
		Habits:      habits,
		Completions: completions,
		Settings:    settings,
	}, nil
}

// ImportData upserts habits by id, replaces completion sets by date and
// upserts settings by key in a single transaction.
func (s *Store) ImportData(ctx context.Context, data models.SnapshotData) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("import data", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, h := range data.Habits {
		if err := putHabit(ctx, tx, stampHabit(h)); err != nil {
			return err
		}
	}
	for _, date := range data.Completions.Dates() {
		if err := validDate(date); err != nil {
			return err
		}
		if err := replaceDay(ctx, tx, date, data.Completions[date]); err != nil {
			return err
		}
	}
	for key, value := range data.Settings {
		if err := putSetting(ctx, tx, key, value); err != nil {
			return err
		}
	}

	return apperrors.Storage("import data", tx.Commit())
}

// ClearAll empties every collection in one transaction.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("clear data", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"day_completions", "habits", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return apperrors.Storage("clear data", err)
		}
	}

	return apperrors.Storage("clear data", tx.Commit())
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
)

const habitColumns = `id, name, category, frequency, time, description, created_at, updated_at,
		streak, best_streak, total_completions, last_completed`

const upsertHabitSQL = `
	INSERT INTO habits (` + habitColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		category = excluded.category,
		frequency = excluded.frequency,
		time = excluded.time,
		description = excluded.description,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		streak = excluded.streak,
		best_streak = excluded.best_streak,
		total_completions = excluded.total_completions,
		last_completed = excluded.last_completed`

func (s *Store) PutHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}
	habit = stampHabit(habit)
	if err := putHabit(ctx, s.db, habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// stampHabit fills in a missing id and zero timestamps.
func stampHabit(habit models.Habit) models.Habit {
	if habit.ID == "" {
		habit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = now
	}
	if habit.UpdatedAt.IsZero() {
		habit.UpdatedAt = now
	}
	return habit
}

func putHabit(ctx context.Context, db execer, h models.Habit) error {
	_, err := db.ExecContext(ctx, upsertHabitSQL,
		h.ID, h.Name, string(h.Category), string(h.Frequency),
		nullString(h.Time), nullString(h.Description),
		formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
		h.Streak, h.BestStreak, h.TotalCompletions, nullString(h.LastCompleted))
	return apperrors.Storage("put habit", err)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	if err != nil {
		return models.Habit{}, apperrors.Storage("get habit", err)
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context, category models.Category) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	query := `SELECT ` + habitColumns + ` FROM habits`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, string(category))
	}
	query += ` ORDER BY created_at, rowid`

	return queryHabits(ctx, s.db, query, args...)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryHabits(ctx context.Context, db querier, query string, args ...interface{}) ([]models.Habit, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("list habits", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, apperrors.Storage("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list habits", err)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	return apperrors.Storage("delete habit", err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var category, frequency, createdAt, updatedAt string
	var hTime, description, lastCompleted sql.NullString

	err := row.Scan(&h.ID, &h.Name, &category, &frequency, &hTime, &description,
		&createdAt, &updatedAt, &h.Streak, &h.BestStreak, &h.TotalCompletions, &lastCompleted)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.Category(category)
	h.Frequency = models.Frequency(frequency)
	h.Time = hTime.String
	h.Description = description.String
	h.LastCompleted = lastCompleted.String

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

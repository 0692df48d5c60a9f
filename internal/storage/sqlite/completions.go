package sqlite

import (
	"context"
	"strings"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/utils"
)

func validDate(date string) error {
	if !utils.ValidDayKey(date) {
		return apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

func (s *Store) GetDayCompletion(ctx context.Context, date string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT habit_id FROM day_completions WHERE date = ? ORDER BY rowid`, date)
	if err != nil {
		return nil, apperrors.Storage("get day completion", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Storage("get day completion", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("get day completion", err)
	}
	return ids, nil
}

func (s *Store) AddCompletionMember(ctx context.Context, date, habitID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := validDate(date); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO day_completions (date, habit_id) VALUES (?, ?)`, date, habitID)
	return apperrors.Storage("add completion", err)
}

func (s *Store) RemoveCompletionMember(ctx context.Context, date, habitID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM day_completions WHERE date = ? AND habit_id = ?`, date, habitID)
	return apperrors.Storage("remove completion", err)
}

func (s *Store) ReplaceDayCompletion(ctx context.Context, date string, habitIDs []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := validDate(date); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("replace day completion", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceDay(ctx, tx, date, habitIDs); err != nil {
		return err
	}
	return apperrors.Storage("replace day completion", tx.Commit())
}

func replaceDay(ctx context.Context, db execer, date string, habitIDs []string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM day_completions WHERE date = ?`, date); err != nil {
		return apperrors.Storage("replace day completion", err)
	}
	for _, id := range models.UniqueIDs(habitIDs) {
		if _, err := db.ExecContext(ctx, `INSERT INTO day_completions (date, habit_id) VALUES (?, ?)`, date, id); err != nil {
			return apperrors.Storage("replace day completion", err)
		}
	}
	return nil
}

func (s *Store) ListCompletions(ctx context.Context, start, end string) (models.CompletionMap, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return listCompletions(ctx, s.db, start, end)
}

func listCompletions(ctx context.Context, db querier, start, end string) (models.CompletionMap, error) {
	var where []string
	var args []interface{}
	if start != "" {
		if err := validDate(start); err != nil {
			return nil, err
		}
		where = append(where, "date >= ?")
		args = append(args, start)
	}
	if end != "" {
		if err := validDate(end); err != nil {
			return nil, err
		}
		where = append(where, "date <= ?")
		args = append(args, end)
	}

	query := `SELECT date, habit_id FROM day_completions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, rowid`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("list completions", err)
	}
	defer rows.Close()

	out := models.CompletionMap{}
	for rows.Next() {
		var date, id string
		if err := rows.Scan(&date, &id); err != nil {
			return nil, apperrors.Storage("list completions", err)
		}
		out[date] = append(out[date], id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list completions", err)
	}
	return out, nil
}

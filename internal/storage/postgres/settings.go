package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/julianstephens/trackmy/internal/errors"
)

func (s *Store) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("setting", key)
	}
	if err != nil {
		return nil, apperrors.Storage("get setting", err)
	}
	return json.RawMessage(value), nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	if err := s.ready(); err != nil {
		return err
	}
	return putSetting(ctx, s.db, key, value)
}

func putSetting(ctx context.Context, db execer, key string, value json.RawMessage) error {
	if key == "" {
		return apperrors.Invalid("setting key cannot be empty")
	}
	if !json.Valid(value) {
		return apperrors.Invalid("setting %q is not valid JSON", key)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value), time.Now().UTC())
	return apperrors.Storage("put setting", err)
}

func (s *Store) ListSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return listSettings(ctx, s.db)
}

func listSettings(ctx context.Context, db querier) (map[string]json.RawMessage, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, apperrors.Storage("list settings", err)
	}
	defer rows.Close()

	out := map[string]json.RawMessage{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, apperrors.Storage("list settings", err)
		}
		out[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list settings", err)
	}
	return out, nil
}

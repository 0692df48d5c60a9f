package habits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/utils"
)

// GetSetting returns the raw value stored under key.
func (s *Service) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	return s.store.GetSetting(ctx, key)
}

// PutSetting stores a raw JSON value under key.
func (s *Service) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	return s.store.PutSetting(ctx, key, value)
}

// Settings returns the typed settings with defaults applied.
func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	raw, err := s.store.ListSettings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	settings, err := models.MapToSettings(raw)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// SaveSettings persists every field of settings. A valid timezone also
// becomes the location used for day keys.
func (s *Service) SaveSettings(ctx context.Context, settings models.Settings) error {
	if settings.Timezone != "" && !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}

	values, err := models.SettingsToMap(settings)
	if err != nil {
		return err
	}
	for key, value := range values {
		if err := s.store.PutSetting(ctx, key, value); err != nil {
			return err
		}
	}

	if settings.Timezone != "" {
		loc, err := utils.LoadLocation(settings.Timezone)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.loc = loc
		s.mu.Unlock()
	}
	logger.Debug("Settings saved", "timezone", settings.Timezone, "ai_provider", settings.AIProvider)
	return nil
}

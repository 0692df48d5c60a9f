package models

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/trackmy/internal/constants"
)

// Settings is the typed view of the settings collection
type Settings struct {
	AIProvider           AIProvider `json:"aiProvider"`
	APIKey               string     `json:"apiKey,omitempty"` // empty when the key lives in the OS keyring
	NotificationsEnabled bool       `json:"enableNotifications"`
	Timezone             string     `json:"timezone"` // IANA name or "Local"
}

// MapToSettings converts the raw settings collection to a Settings struct.
// Unknown keys are ignored.
func MapToSettings(data map[string]json.RawMessage) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingAIProvider:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.AIProvider = ParseAIProvider(s)
		case constants.SettingAPIKey:
			if err := json.Unmarshal(value, &settings.APIKey); err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingEnableNotifications:
			if err := json.Unmarshal(value, &settings.NotificationsEnabled); err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingTimezone:
			if err := json.Unmarshal(value, &settings.Timezone); err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to raw key/value pairs.
func SettingsToMap(settings Settings) (map[string]json.RawMessage, error) {
	values := map[string]interface{}{
		constants.SettingAIProvider:          string(settings.AIProvider),
		constants.SettingEnableNotifications: settings.NotificationsEnabled,
		constants.SettingTimezone:            settings.Timezone,
	}
	if settings.APIKey != "" {
		values[constants.SettingAPIKey] = settings.APIKey
	}

	out := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", k, err)
		}
		out[k] = raw
	}
	return out, nil
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.AIProvider == "" {
		settings.AIProvider = AIProviderNone
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

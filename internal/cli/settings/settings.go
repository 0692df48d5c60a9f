package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/constants"
	"github.com/julianstephens/trackmy/internal/keyring"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/utils"
)

type SettingsCmd struct {
	List   SettingsListCmd   `cmd:"" help:"List current settings." default:"1"`
	Get    SettingsGetCmd    `cmd:"" help:"Print one setting as JSON."`
	Set    SettingsSetCmd    `cmd:"" help:"Change a setting."`
	APIKey SettingsAPIKeyCmd `cmd:"" name:"api-key" help:"Store the AI provider API key in the OS keyring."`
}

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Service.Settings(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	apiKey := "not set"
	if settings.APIKey != "" {
		apiKey = "stored in database"
	} else if _, err := keyring.GetAPIKey(); err == nil {
		apiKey = "stored in OS keyring"
	}

	fmt.Println(cli.HeadingStyle.Render("Current Settings:"))
	fmt.Printf("  AI Provider:           %s\n", settings.AIProvider)
	fmt.Printf("  API Key:               %s\n", apiKey)
	fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)

	raw, err := ctx.Service.Store().ListSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	var extra []string
	for key := range raw {
		switch key {
		case constants.SettingAIProvider, constants.SettingAPIKey, constants.SettingEnableNotifications, constants.SettingTimezone:
		default:
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		fmt.Println("\nOther Settings:")
		for _, key := range extra {
			fmt.Printf("  %s = %s\n", key, raw[key])
		}
	}
	return nil
}

type SettingsGetCmd struct {
	Key string `arg:"" help:"Setting key."`
}

func (c *SettingsGetCmd) Run(ctx *cli.Context) error {
	value, err := ctx.Service.GetSetting(ctx.Ctx, c.Key)
	if err != nil {
		return err
	}
	fmt.Println(string(value))
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key: aiProvider, enableNotifications, timezone or any custom key."`
	Value string `arg:"" help:"New value. Custom keys take raw JSON; plain text is stored as a string."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Service.Settings(ctx.Ctx)
	if err != nil {
		return err
	}

	switch c.Key {
	case constants.SettingAIProvider:
		provider := models.AIProvider(strings.ToLower(c.Value))
		if models.ParseAIProvider(string(provider)) != provider {
			return fmt.Errorf("invalid AI provider %q (expected openai, anthropic or none)", c.Value)
		}
		settings.AIProvider = provider
	case constants.SettingEnableNotifications:
		switch strings.ToLower(c.Value) {
		case "true", "on", "yes", "1":
			settings.NotificationsEnabled = true
		case "false", "off", "no", "0":
			settings.NotificationsEnabled = false
		default:
			return fmt.Errorf("invalid boolean %q", c.Value)
		}
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(c.Value) {
			return fmt.Errorf("invalid timezone %q", c.Value)
		}
		settings.Timezone = c.Value
	case constants.SettingAPIKey:
		return errors.New("use 'trackmy settings api-key' to store the API key")
	default:
		value := json.RawMessage(c.Value)
		if !json.Valid(value) {
			encoded, err := json.Marshal(c.Value)
			if err != nil {
				return err
			}
			value = encoded
		}
		if err := ctx.Service.PutSetting(ctx.Ctx, c.Key, value); err != nil {
			return err
		}
		fmt.Printf("%s %s updated\n", cli.SuccessStyle.Render("✓"), c.Key)
		return nil
	}

	if err := ctx.Service.SaveSettings(ctx.Ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("%s %s updated\n", cli.SuccessStyle.Render("✓"), c.Key)
	return nil
}

type SettingsAPIKeyCmd struct {
	Key    string `arg:"" optional:"" help:"API key. Omit with --delete."`
	Delete bool   `help:"Remove the stored key."`
}

func (c *SettingsAPIKeyCmd) Run(ctx *cli.Context) error {
	if c.Delete {
		if err := keyring.DeleteAPIKey(); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return errors.New("no API key found in keyring")
			}
			return err
		}
		fmt.Printf("%s API key deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
		return nil
	}

	if strings.TrimSpace(c.Key) == "" {
		return errors.New("an API key is required")
	}
	if err := keyring.SetAPIKey(c.Key); err != nil {
		return err
	}
	fmt.Printf("%s API key stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

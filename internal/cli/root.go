package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackmy/internal/backup"
	"github.com/julianstephens/trackmy/internal/config"
	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/habits"
	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/models"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/sqlite"
	"github.com/julianstephens/trackmy/internal/utils"
)

// Context is passed to every command's Run method.
type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Service *habits.Service
	Config  *config.Config

	// Confirm asks a yes/no question. Defaults to a huh prompt.
	Confirm func(title, description string) (bool, error)
}

// NewContext wires a service over store using the configured timezone.
func NewContext(ctx context.Context, store storage.Provider, cfg *config.Config) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return &Context{
		Ctx:     ctx,
		Store:   store,
		Service: habits.New(store, habits.WithLocation(loc)),
		Config:  cfg,
		Confirm: confirmPrompt,
	}, nil
}

// ApplyStoredTimezone switches the service to the timezone saved in settings,
// unless it is the default.
func (c *Context) ApplyStoredTimezone() {
	settings, err := c.Service.Settings(c.Ctx)
	if err != nil {
		logger.Debug("Could not read settings", "error", err)
		return
	}
	if settings.Timezone == "" || settings.Timezone == "Local" {
		return
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Ignoring invalid stored timezone", "timezone", settings.Timezone, "error", err)
		return
	}
	c.Service = habits.New(c.Store, habits.WithLocation(loc))
}

func confirmPrompt(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Ask runs the confirmation prompt unless assumeYes is set.
func (c *Context) Ask(assumeYes bool, title, description string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	confirm := c.Confirm
	if confirm == nil {
		confirm = confirmPrompt
	}
	return confirm(title, description)
}

// PerformAutomaticBackup backs up a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.AutoBackup {
		return
	}
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.Location())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseDay parses a YYYY-MM-DD key, "today" or "yesterday" into a time on
// that day in the service location. An empty value means today.
func (c *Context) ParseDay(value string) (time.Time, error) {
	loc := c.Service.Location()
	now := time.Now().In(loc)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	key, err := utils.ParseDayKey(value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(key.Year(), key.Month(), key.Day(), 12, 0, 0, 0, loc), nil
}

// FindHabit resolves a habit by id or by case-insensitive name.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	h, err := c.Service.GetHabit(c.Ctx, ref)
	if err == nil {
		return h, nil
	}
	if !apperrors.IsNotFound(err) {
		return models.Habit{}, err
	}

	all, err := c.Service.ListHabits(c.Ctx, "")
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range all {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are named %q, use the id instead", len(matches), ref)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/cli/backups"
	"github.com/julianstephens/trackmy/internal/cli/data"
	"github.com/julianstephens/trackmy/internal/cli/habits"
	"github.com/julianstephens/trackmy/internal/cli/settings"
	"github.com/julianstephens/trackmy/internal/cli/system"
	"github.com/julianstephens/trackmy/internal/config"
	"github.com/julianstephens/trackmy/internal/constants"
	apperrors "github.com/julianstephens/trackmy/internal/errors"
	"github.com/julianstephens/trackmy/internal/keyring"
	"github.com/julianstephens/trackmy/internal/logger"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/postgres"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Database path, JSON document path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded; use the environment, .pgpass or the OS keyring instead." type:"string"`
	Backend   string `help:"Storage backend: sqlite, postgres or json."`
	ConfigDir string `help:"Directory holding config.yaml, logs and the default database." type:"path" env:"TRACKMY_CONFIG_DIR"`
	Debug     bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize trackmy storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and mark them done." default:"1"`
	Stats    habits.StatsCmd      `cmd:"" help:"Show today's completion summary."`
	Week     habits.WeekCmd       `cmd:"" help:"Show daily completion rates for a week."`
	Range    habits.RangeCmd      `cmd:"" help:"Show completions between two days."`
	Export   data.ExportCmd       `cmd:"" help:"Export all data to a JSON file."`
	Import   data.ImportCmd       `cmd:"" help:"Replace all data with a JSON export."`
	Clear    data.ClearCmd        `cmd:"" help:"Delete all habits, completions and settings."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Cfg      system.ConfigCmd     `cmd:"" name:"config" help:"Show or change config.yaml."`
}

// Commands that work without an opened store.
var storeless = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
	"config":  true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker with streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	apperrors.Fatal(run(kctx))
}

func run(kctx *kong.Context) error {
	dir := CLI.ConfigDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDir(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx, err := cli.NewContext(ctx, store, cfg)
	if err != nil {
		return err
	}

	if command := strings.Fields(kctx.Command()); len(command) > 0 && !storeless[command[0]] {
		if err := store.Load(ctx); err != nil {
			return err
		}
		appCtx.ApplyStoredTimezone()
	}

	logger.Debug("Running command", "command", kctx.Command(), "backend", cfg.Backend)
	return kctx.Run(appCtx)
}

// openStore applies the --config and --backend flags over cfg and returns the
// unopened store.
func openStore(cfg *config.Config) (storage.Provider, error) {
	if CLI.Config != "" {
		cfg.Path = CLI.Config
		cfg.Backend = storage.DetectBackend(CLI.Config)
	}
	if CLI.Backend != "" {
		// A defaulted path follows the backend chosen on the command line.
		if CLI.Config == "" && cfg.Path == config.DefaultPath(cfg.Dir, cfg.Backend) {
			cfg.Path = config.DefaultPath(cfg.Dir, CLI.Backend)
		}
		cfg.Backend = CLI.Backend
	}

	if cfg.Backend != constants.BackendPostgres {
		return storage.Open(storage.Config{Backend: cfg.Backend, Path: cfg.Path})
	}

	if storage.IsPostgresURL(cfg.Path) || strings.Contains(cfg.Path, "host=") {
		if ok, err := postgres.ValidateConnString(cfg.Path); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("PostgreSQL connection strings with embedded credentials are not allowed; " +
					"store it with 'trackmy keyring set', export " + constants.EnvDBConnection + " or use a .pgpass file")
			}
			return nil, err
		}
		return postgres.New(cfg.Path), nil
	}

	// Secrets from the environment or the keyring may carry a password.
	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		logger.Debug("Using connection string from environment")
		return postgres.New(connStr), nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("no PostgreSQL connection string: pass --config, set %s or run 'trackmy keyring set'", constants.EnvDBConnection)
		}
		return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
	}
	logger.Debug("Using connection string from keyring")
	return postgres.New(connStr), nil
}

// Package config loads config.yaml from the platform config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/julianstephens/trackmy/internal/constants"
	"github.com/julianstephens/trackmy/internal/utils"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	KeyBackend    = "backend"
	KeyPath       = "path"
	KeyTimezone   = "timezone"
	KeyDebug      = "debug"
	KeyAutoBackup = "auto_backup"

	// EnvConfigDir overrides the config directory.
	EnvConfigDir = constants.EnvPrefix + "_CONFIG_DIR"

	defaultDBFile   = "trackmy.db"
	defaultJSONFile = "trackmy.json"
)

const defaultConfigYAML = `# trackmy configuration
# Values can be overridden with TRACKMY_<KEY> environment variables.

# Storage backend: sqlite, postgres or json
backend: sqlite

# Database file (sqlite), document file (json) or connection string (postgres).
# Defaults to trackmy.db (sqlite) or trackmy.json (json) in this directory.
# path:

# IANA timezone used to decide which day a completion belongs to
timezone: Local

# Back up the sqlite database before import and clear
auto_backup: true

debug: false
`

// Config is the resolved application configuration.
type Config struct {
	Dir        string
	Backend    string
	Path       string
	Timezone   string
	Debug      bool
	AutoBackup bool
}

// platformDir is swapped out in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultDir returns the config directory: $TRACKMY_CONFIG_DIR, then
// $XDG_CONFIG_HOME/trackmy or ~/.config/trackmy on Linux, then the OS user
// config dir elsewhere.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, constants.AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", constants.AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.AppName), nil
}

// Load reads config.yaml from dir, writing a default file on first run.
// Environment variables prefixed with TRACKMY_ take precedence over the file.
func Load(dir string) (*Config, error) {
	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}
	return fromViper(dir, v)
}

func newViper(dir string) (*viper.Viper, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyBackend, constants.BackendSQLite)
	v.SetDefault(KeyTimezone, constants.DefaultTimezone)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyAutoBackup, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func fromViper(dir string, v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Dir:        dir,
		Backend:    strings.ToLower(strings.TrimSpace(v.GetString(KeyBackend))),
		Path:       strings.TrimSpace(v.GetString(KeyPath)),
		Timezone:   strings.TrimSpace(v.GetString(KeyTimezone)),
		Debug:      v.GetBool(KeyDebug),
		AutoBackup: v.GetBool(KeyAutoBackup),
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath(dir, cfg.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the storage file used for backend when config.yaml
// sets no path. Postgres has none.
func DefaultPath(dir, backend string) string {
	switch backend {
	case constants.BackendSQLite:
		return filepath.Join(dir, defaultDBFile)
	case constants.BackendJSON:
		return filepath.Join(dir, defaultJSONFile)
	default:
		return ""
	}
}

// Validate checks the backend name and timezone.
func (c *Config) Validate() error {
	switch c.Backend {
	case constants.BackendSQLite, constants.BackendPostgres, constants.BackendJSON:
	default:
		return fmt.Errorf("invalid backend %q in config (expected sqlite, postgres or json)", c.Backend)
	}
	if c.Timezone != "" && !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q in config", c.Timezone)
	}
	return nil
}

// Set writes key=value to config.yaml in dir.
func Set(dir, key, value string) error {
	switch key {
	case KeyBackend, KeyPath, KeyTimezone, KeyDebug, KeyAutoBackup:
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	v, err := newViper(dir)
	if err != nil {
		return err
	}
	v.Set(key, value)
	if _, err := fromViper(dir, v); err != nil {
		return err
	}
	return v.WriteConfigAs(filepath.Join(dir, configFileExt))
}

// FilePath returns the config.yaml path inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, configFileExt)
}

func ensureDefaultConfigFile(dir string) error {
	path := filepath.Join(dir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o600)
}

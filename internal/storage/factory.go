package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/trackmy/internal/constants"
	"github.com/julianstephens/trackmy/internal/storage/jsonfile"
	"github.com/julianstephens/trackmy/internal/storage/postgres"
	"github.com/julianstephens/trackmy/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Provider = (*jsonfile.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
	_ Migrator = (*jsonfile.Store)(nil)
)

// Config selects and locates a backend.
type Config struct {
	Backend string
	// Path is the database or document file for the sqlite and json backends.
	Path string
	// ConnString is the PostgreSQL connection string. It must not embed a password.
	ConnString string
}

// Open returns an unopened Provider for cfg. Callers follow with Init or Load.
func Open(cfg Config) (Provider, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = DetectBackend(cfg.Path)
	}

	switch backend {
	case constants.BackendSQLite:
		return sqlite.NewStore(expandHome(cfg.Path)), nil
	case constants.BackendJSON:
		return jsonfile.NewStore(expandHome(cfg.Path)), nil
	case constants.BackendPostgres:
		connStr := cfg.ConnString
		if connStr == "" && IsPostgresURL(cfg.Path) {
			connStr = cfg.Path
		}
		if ok, err := postgres.ValidateConnString(connStr); !ok {
			return nil, err
		}
		return postgres.New(connStr), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %s, %s or %s)",
			cfg.Backend, constants.BackendSQLite, constants.BackendPostgres, constants.BackendJSON)
	}
}

// DetectBackend infers the backend from a path or connection string.
func DetectBackend(path string) string {
	switch {
	case IsPostgresURL(path):
		return constants.BackendPostgres
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return constants.BackendJSON
	default:
		return constants.BackendSQLite
	}
}

// IsPostgresURL reports whether s is a postgres:// or postgresql:// URL.
func IsPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}

package constants

// Version is overridden at build time with -ldflags -X.
var Version = "v0.1.0"

const (
	AppName           = "trackmy"

	// Keyring users under the AppName service
	KeyringUserConnection = "database-connection"
	KeyringUserAPIKey     = "ai-api-key"

	// SnapshotVersion is written to exported documents
	SnapshotVersion      = 1
	ExportFilePrefix     = "track-my-backup-"
	ExportFileSuffix     = ".json"
	ExportDateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trackmy-"
	BackupFileSuffix = ".db"

	// Storage backends
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"

	// Environment variables
	EnvDBConnection = "TRACKMY_DB_CONNECTION"
	EnvPrefix       = "TRACKMY"
)

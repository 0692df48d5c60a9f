// Package migrations embeds the versioned schema files for each SQL backend.
// Files are named NNN_name.sql and grouped by driver directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Package migrations embeds the goose migration files for each supported SQL backend.
package migrations

import "embed"

// Postgres holds the migrations under postgres/
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations under sqlite/
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Package migrations embeds the SQL schema of the session stores.
package migrations

import "embed"

// SQLite holds golang-migrate up/down files for the sqlite backend.
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Postgres holds forward-only migrations for the postgres backend.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// Package migrations embeds the versioned SQL schema for each relational backend.
package migrations

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the migration source for PostgreSQL.
func Postgres() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: files, Root: "postgres"}
}

// SQLite returns the migration source for SQLite.
func SQLite() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: files, Root: "sqlite"}
}

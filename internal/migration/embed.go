package migration

import "embed"

// Only up-migrations ship in the binary; rollbacks are operational scripts.
const migrationsDir = "migrations"

//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS

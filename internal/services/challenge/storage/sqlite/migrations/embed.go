package migrations

import "embed"

// FS contains embedded SQLite migrations for challenge storage.
//
//go:embed *.sql
var FS embed.FS

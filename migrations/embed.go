// Package migrations embeds SQL migration files into the binary.
//
// This allows tsbridge to bootstrap its schema without needing the SQL
// files present on the filesystem - they're compiled into the executable.
package migrations

import (
	"embed"

	"github.com/nerrad567/tsbridge/internal/infrastructure/timescale"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the timescale package.
	// The embed directive above captures all .sql files in this directory.
	timescale.MigrationsFS = migrationsFS
	timescale.MigrationsDir = "." // Files are at root of embedded FS
}

package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	ierr "github.com/ahamo-portal/portal/internal/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema file
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded schema files in name order
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, Migration{Name: name, SQL: string(body)})
	}
	return migrations, nil
}

// Migrate applies every migration inside one transaction. The statements are
// idempotent so running it twice is safe.
func (db *DB) Migrate(ctx context.Context) error {
	migrations, err := Migrations()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to start migration transaction").
			Mark(ierr.ErrDatabase)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		db.logger.Infow("applying migration", "name", m.Name)
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return ierr.WithError(err).
				WithHintf("Migration %s failed", m.Name).
				Mark(ierr.ErrDatabase)
		}
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit migrations").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

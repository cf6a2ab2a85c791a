package preferences

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/chrissnell/muadhin/pkg/migrate"
	"github.com/chrissnell/muadhin/pkg/prayertimes"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore persists flags in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer; serialise through one connection.
	db.SetMaxOpenConns(1)

	migrator := migrate.NewMigrator(db, migrate.NewFSProvider(migrationsFS, "migrations", "preferences_migrations"))
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate preferences schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Enabled(ctx context.Context, location string, p prayertimes.Prayer) (bool, error) {
	var enabled bool
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled FROM notification_preferences WHERE location = ? AND prayer = ?`,
		location, p.String()).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("error querying preference %s/%s: %w", location, p, err)
	}
	return enabled, nil
}

func (s *SQLiteStore) SetEnabled(ctx context.Context, location string, p prayertimes.Prayer, enabled bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_preferences (location, prayer, enabled, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT (location, prayer) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		location, p.String(), enabled)
	if err != nil {
		return fmt.Errorf("error storing preference %s/%s: %w", location, p, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, location string) (map[prayertimes.Prayer]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prayer, enabled FROM notification_preferences WHERE location = ?`, location)
	if err != nil {
		return nil, fmt.Errorf("error querying preferences for %s: %w", location, err)
	}
	defer rows.Close()

	stored := make(map[prayertimes.Prayer]bool)
	for rows.Next() {
		var name string
		var enabled bool
		if err := rows.Scan(&name, &enabled); err != nil {
			return nil, fmt.Errorf("error scanning preference row: %w", err)
		}
		p, err := prayertimes.ParsePrayer(name)
		if err != nil {
			continue
		}
		stored[p] = enabled
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return withDefaults(stored), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

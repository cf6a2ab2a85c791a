package migrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

var testMigrations = fstest.MapFS{
	"migrations/001_create_widgets.up.sql":   {Data: []byte(`CREATE TABLE widgets (id INTEGER PRIMARY KEY);`)},
	"migrations/001_create_widgets.down.sql": {Data: []byte(`DROP TABLE widgets;`)},
	"migrations/002_add_name.up.sql":         {Data: []byte(`ALTER TABLE widgets ADD COLUMN name TEXT;`)},
	"migrations/002_add_name.down.sql":       {Data: []byte(`ALTER TABLE widgets DROP COLUMN name;`)},
	"migrations/README.md":                   {Data: []byte("ignored")},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMigrations(t *testing.T) {
	migrations, err := NewFSProvider(testMigrations, "migrations", "").GetMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, expected 2", len(migrations))
	}
	if m := migrations[0]; m.Version != 1 || m.Name != "create widgets" || m.Up == "" || m.Down == "" {
		t.Errorf("first migration = %+v", m)
	}
	if migrations[1].Version != 2 {
		t.Errorf("migrations out of order: %+v", migrations)
	}
}

func TestMigrateUpAndDown(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testMigrations, "migrations", "widget_migrations"))

	if err := m.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if v, _ := m.GetCurrentVersion(); v != 2 {
		t.Errorf("version = %d after MigrateUp, expected 2", v)
	}
	if len(m.Applied()) != 2 {
		t.Errorf("applied = %v", m.Applied())
	}
	if _, err := db.Exec(`INSERT INTO widgets (id, name) VALUES (1, 'sprocket')`); err != nil {
		t.Errorf("schema not applied: %v", err)
	}

	// A second run has nothing to do
	if err := m.MigrateUp(); err != nil {
		t.Fatal(err)
	}
	if pending, _ := m.GetPendingMigrations(); len(pending) != 0 {
		t.Errorf("pending = %v", pending)
	}

	if err := m.MigrateTo(1); err != nil {
		t.Fatalf("MigrateTo(1): %v", err)
	}
	if v, _ := m.GetCurrentVersion(); v != 1 {
		t.Errorf("version = %d after rollback, expected 1", v)
	}
	if _, err := db.Exec(`INSERT INTO widgets (id, name) VALUES (2, 'gear')`); err == nil {
		t.Error("name column should be gone after rollback")
	}

	if err := m.MigrateDown(1); err == nil {
		t.Error("expected an error migrating down to the current version")
	}
}

func TestMigrationTablesAreIndependent(t *testing.T) {
	db := openDB(t)

	other := fstest.MapFS{
		"sql/001_create_gadgets.up.sql": {Data: []byte(`CREATE TABLE gadgets (id INTEGER PRIMARY KEY);`)},
	}
	if err := NewMigrator(db, NewFSProvider(testMigrations, "migrations", "widget_migrations")).MigrateUp(); err != nil {
		t.Fatal(err)
	}
	gm := NewMigrator(db, NewFSProvider(other, "sql", "gadget_migrations"))
	if err := gm.MigrateUp(); err != nil {
		t.Fatal(err)
	}
	if v, _ := gm.GetCurrentVersion(); v != 1 {
		t.Errorf("gadget version = %d, expected 1", v)
	}
}

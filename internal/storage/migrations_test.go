package storage

import (
	"errors"
	"testing"
)

func TestLoadMigrations_Up(t *testing.T) {
	mr := NewMigrationRunner("sqlite3")

	latest, err := mr.GetLatestMigrationVersion()
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion failed: %v", err)
	}
	if latest != 3 {
		t.Fatalf("expected latest version 3, got %d", latest)
	}

	migrations, err := mr.LoadMigrations(0, -1)
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	for i, m := range migrations {
		if !m.Up || m.Version != i+1 {
			t.Errorf("migration %d out of order: %+v", i, m)
		}
	}
}

func TestLoadMigrations_Down(t *testing.T) {
	migrations, err := NewMigrationRunner("sqlite3").LoadMigrations(3, 1)
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(migrations) != 2 || migrations[0].Version != 3 || migrations[1].Version != 2 {
		t.Fatalf("unexpected down migrations: %+v", migrations)
	}
	if migrations[0].Up {
		t.Errorf("expected down migration")
	}
}

func TestLoadMigrations_SameVersion(t *testing.T) {
	_, err := NewMigrationRunner("sqlite3").LoadMigrations(3, -1)
	if !errors.Is(err, ErrMigrateCurrentVersionSameAsTarget) {
		t.Fatalf("expected ErrMigrateCurrentVersionSameAsTarget, got %v", err)
	}
}

func TestLoadMigrations_UnsupportedDriver(t *testing.T) {
	if _, err := NewMigrationRunner("oracle").LoadMigrations(0, -1); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestSchemaMigration_BeforeAfter(t *testing.T) {
	up := SchemaMigration{Version: 2, Up: true}
	down := SchemaMigration{Version: 2, Up: false}
	if up.Before() != 1 || up.After() != 2 {
		t.Errorf("unexpected up bounds %d -> %d", up.Before(), up.After())
	}
	if down.Before() != 2 || down.After() != 1 {
		t.Errorf("unexpected down bounds %d -> %d", down.Before(), down.After())
	}
}

package store

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsFS_ContainsPairedFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("expected at least one up migration")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestMigrationsFS_CreatesSnapshotTable(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_create_channel_snapshots.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "CREATE TABLE IF NOT EXISTS channel_snapshots") {
		t.Error("expected channel_snapshots table definition")
	}
}

package store

import (
	"context"
	"os"
	"testing"

	"github.com/jjenkins/nichefinder/internal/model"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := RunMigrations(url); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	ctx := context.Background()
	db, err := NewDB(ctx, url)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE channel_snapshots"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	s := NewPostgresStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresStore_AppendAndReadAll(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()

	first := []model.SnapshotRow{
		snapshot("2026-01-01", "UC1", "One", 10, 100, 1),
		snapshot("2026-01-01", "UC2", "Two", 5, 50, 3),
	}
	second := []model.SnapshotRow{snapshot("2026-01-01", "UC1", "One again", 11, 101, 1)}

	if err := s.Append(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, second); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]model.SnapshotRow{}, first...), second...)
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if !rows[i].Date.Equal(want[i].Date) || rows[i].ChannelRecord != want[i].ChannelRecord {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestPostgresStore_EmptyTable(t *testing.T) {
	s := newTestPostgresStore(t)

	rows, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/store"
)

type countingRecorder struct {
	snapshots int
}

func (r *countingRecorder) ObserveUpstream(string, error, time.Duration) {}
func (r *countingRecorder) AddSnapshots(n int)                          { r.snapshots += n }

func channelAPI() *fakeAPI {
	return &fakeAPI{
		channels: []model.ChannelHit{
			{ChannelID: "UC1", ChannelTitle: "Sky Reviews"},
			{ChannelID: "UC2", ChannelTitle: "Ground Control"},
		},
		channelStats: map[string]model.ChannelRecord{
			"UC1": {ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 1200, Views: 90000, Videos: 40},
			"UC2": {ChannelID: "UC2", ChannelTitle: "Ground", Subscribers: 300, Views: 5000, Videos: 8},
		},
	}
}

func newTestChannelFetcher(t *testing.T, api VideoAPI, dedupe bool) (*ChannelFetcher, *store.CSVStore, *countingRecorder) {
	t.Helper()
	st := store.NewCSVStore(filepath.Join(t.TempDir(), "snapshots.csv"), zerolog.New(io.Discard))
	rec := &countingRecorder{}
	f := NewChannelFetcher(api, st, rec, dedupe, zerolog.New(io.Discard))
	f.now = func() time.Time { return fixedNow }
	return f, st, rec
}

func TestChannelFetcher_AppendsSnapshots(t *testing.T) {
	f, st, rec := newTestChannelFetcher(t, channelAPI(), false)
	ctx := context.Background()

	result, err := f.Fetch(ctx, "drone", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.RunID == "" {
		t.Error("expected a run id")
	}
	if len(result.Channels) != 2 || result.Appended != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Channels[0].ChannelTitle != "Sky Reviews" {
		t.Errorf("search title should be kept, got %q", result.Channels[0].ChannelTitle)
	}

	rows, err := st.ReadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	wantDate := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, r := range rows {
		if !r.Date.Equal(wantDate) {
			t.Errorf("row date = %v, want %v", r.Date, wantDate)
		}
	}
	if rows[0].Subscribers != 1200 || rows[1].Videos != 8 {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if rec.snapshots != 2 {
		t.Errorf("recorded %d snapshots, want 2", rec.snapshots)
	}
}

func TestChannelFetcher_SameDayRunsAppendTwice(t *testing.T) {
	f, st, _ := newTestChannelFetcher(t, channelAPI(), false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(ctx, "drone", 10); err != nil {
			t.Fatal(err)
		}
	}

	rows, _ := st.ReadAll(ctx)
	if len(rows) != 4 {
		t.Errorf("expected 4 rows without dedupe, got %d", len(rows))
	}
}

func TestChannelFetcher_DedupeSameDay(t *testing.T) {
	f, st, rec := newTestChannelFetcher(t, channelAPI(), true)
	ctx := context.Background()

	if _, err := f.Fetch(ctx, "drone", 10); err != nil {
		t.Fatal(err)
	}
	result, err := f.Fetch(ctx, "drone", 10)
	if err != nil {
		t.Fatal(err)
	}
	if result.Appended != 0 || result.Skipped != 2 {
		t.Errorf("expected second run to skip both, got %+v", result)
	}

	// a new day is recorded again
	f.now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
	if _, err := f.Fetch(ctx, "drone", 10); err != nil {
		t.Fatal(err)
	}

	rows, _ := st.ReadAll(ctx)
	if len(rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(rows))
	}
	if rec.snapshots != 4 {
		t.Errorf("recorded %d snapshots, want 4", rec.snapshots)
	}
}

func TestChannelFetcher_FailureWritesNothing(t *testing.T) {
	api := channelAPI()
	delete(api.channelStats, "UC2")
	f, st, _ := newTestChannelFetcher(t, api, false)
	ctx := context.Background()

	_, err := f.Fetch(ctx, "drone", 10)
	if !model.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	rows, _ := st.ReadAll(ctx)
	if len(rows) != 0 {
		t.Errorf("expected no rows after failure, got %d", len(rows))
	}
}

func TestChannelFetcher_EmptyAndInvalid(t *testing.T) {
	f, st, _ := newTestChannelFetcher(t, &fakeAPI{}, false)
	ctx := context.Background()

	result, err := f.Fetch(ctx, "nobody", 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Channels) != 0 || result.Appended != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if rows, _ := st.ReadAll(ctx); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}

	if _, err := f.Fetch(ctx, " ", 5); !errors.Is(err, model.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := f.Fetch(ctx, "x", 100); !model.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

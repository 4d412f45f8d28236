package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/store"
)

// ChannelResult is the outcome of one channel fetch run
type ChannelResult struct {
	RunID    string
	Date     time.Time
	Channels []model.ChannelRecord
	Appended int
	Skipped  int // rows already present for the same day when dedupe is on
}

// ChannelFetcher searches channels for a keyword and records a snapshot of
// each one. It is the only writer of the snapshot store.
type ChannelFetcher struct {
	api     VideoAPI
	store   store.SnapshotStore
	metrics metrics.Recorder
	dedupe  bool
	now     func() time.Time
	logger  zerolog.Logger
}

// NewChannelFetcher creates a ChannelFetcher. With dedupeSameDay set, a
// channel already snapshotted today is not appended again.
func NewChannelFetcher(api VideoAPI, st store.SnapshotStore, rec metrics.Recorder, dedupeSameDay bool, logger zerolog.Logger) *ChannelFetcher {
	if rec == nil {
		rec = metrics.Nop
	}
	return &ChannelFetcher{
		api:     api,
		store:   st,
		metrics: rec,
		dedupe:  dedupeSameDay,
		now:     time.Now,
		logger:  logger.With().Str("component", "channel_fetcher").Logger(),
	}
}

// Fetch returns the matching channels in search order and appends them to
// the store stamped with today's UTC date. Nothing is written if any lookup
// fails.
func (f *ChannelFetcher) Fetch(ctx context.Context, keyword string, maxResults int) (*ChannelResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, model.ErrEmptyInput
	}
	if err := validateMaxResults(maxResults); err != nil {
		return nil, err
	}

	result := &ChannelResult{
		RunID: uuid.NewString(),
		Date:  model.SnapshotDate(f.now()),
	}
	logger := f.logger.With().Str("run_id", result.RunID).Str("keyword", keyword).Logger()

	logger.Info().Int("max_results", maxResults).Msg("searching channels")
	hits, err := f.api.SearchChannels(ctx, keyword, int64(maxResults))
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		logger.Info().Msg("no channels found")
		result.Channels = []model.ChannelRecord{}
		return result, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChannelID
	}
	stats, err := f.api.ChannelStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	result.Channels = make([]model.ChannelRecord, 0, len(hits))
	for _, h := range hits {
		s, ok := stats[h.ChannelID]
		if !ok {
			return nil, &model.UpstreamError{Op: opChannelsList, Err: fmt.Errorf("no statistics returned for channel %s", h.ChannelID)}
		}
		rec := s
		rec.ChannelID = h.ChannelID
		if h.ChannelTitle != "" {
			rec.ChannelTitle = h.ChannelTitle
		}
		result.Channels = append(result.Channels, rec)
	}

	rows, skipped, err := f.snapshotRows(ctx, result.Date, result.Channels)
	if err != nil {
		return nil, err
	}
	if err := f.store.Append(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to append snapshots: %w", err)
	}
	f.metrics.AddSnapshots(len(rows))

	result.Appended = len(rows)
	result.Skipped = skipped

	logger.Info().
		Int("channels", len(result.Channels)).
		Int("appended", result.Appended).
		Int("skipped", result.Skipped).
		Msg("channel snapshot complete")

	return result, nil
}

func (f *ChannelFetcher) snapshotRows(ctx context.Context, date time.Time, channels []model.ChannelRecord) ([]model.SnapshotRow, int, error) {
	var seen map[string]bool
	if f.dedupe {
		existing, err := f.store.ReadAll(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read snapshots: %w", err)
		}
		seen = make(map[string]bool)
		for _, r := range existing {
			if r.Date.Equal(date) {
				seen[r.ChannelID] = true
			}
		}
	}

	rows := make([]model.SnapshotRow, 0, len(channels))
	skipped := 0
	for _, c := range channels {
		if f.dedupe {
			if seen[c.ChannelID] {
				skipped++
				continue
			}
			seen[c.ChannelID] = true
		}
		rows = append(rows, model.SnapshotRow{Date: date, ChannelRecord: c})
	}
	return rows, skipped, nil
}

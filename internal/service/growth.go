package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/store"
)

// Timeframes are the supported growth windows in days
var Timeframes = []int{7, 30, 90}

// Range is an inclusive [Min, Max] bound. A nil Max leaves the range
// unbounded above; a Max of zero is the literal bound [Min, 0].
type Range struct {
	Min uint64
	Max *uint64
}

// AtLeast is the unbounded range [min, inf)
func AtLeast(min uint64) Range {
	return Range{Min: min}
}

// Between is the closed range [min, max]
func Between(min, max uint64) Range {
	return Range{Min: min, Max: &max}
}

// Bounded reports whether the range has an upper limit
func (r Range) Bounded() bool {
	return r.Max != nil
}

// Contains reports whether v lies within the range, bounds included
func (r Range) Contains(v uint64) bool {
	if v < r.Min {
		return false
	}
	return r.Max == nil || v <= *r.Max
}

func (r Range) validate(field string) error {
	if r.Max != nil && r.Min > *r.Max {
		return &model.ValidationError{Field: field, Message: fmt.Sprintf("min %d is greater than max %d", r.Min, *r.Max)}
	}
	return nil
}

// GrowthQuery selects and filters channels for the growth view
type GrowthQuery struct {
	Timeframe   int
	Subscribers Range
	Videos      Range
	MinViews    uint64
}

// Validate checks the timeframe and range bounds
func (q GrowthQuery) Validate() error {
	valid := false
	for _, tf := range Timeframes {
		if q.Timeframe == tf {
			valid = true
			break
		}
	}
	if !valid {
		return &model.ValidationError{Field: "timeframe", Message: fmt.Sprintf("must be one of %v days", Timeframes)}
	}
	if err := q.Subscribers.validate("subscriber range"); err != nil {
		return err
	}
	return q.Videos.validate("video range")
}

// ComputeGrowth compares each channel's latest snapshot with its most recent
// snapshot dated on or before now minus the timeframe. Channels with no such
// snapshot are omitted. Rows sharing a date resolve to the one appended last.
// Results are sorted by subscriber growth, highest first.
func ComputeGrowth(rows []model.SnapshotRow, q GrowthQuery, now time.Time) ([]model.GrowthRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	cutoff := model.SnapshotDate(now).AddDate(0, 0, -q.Timeframe)

	type window struct {
		latest  model.SnapshotRow
		past    model.SnapshotRow
		hasPast bool
	}

	var order []string
	windows := make(map[string]*window)
	for _, r := range rows {
		w, ok := windows[r.ChannelID]
		if !ok {
			w = &window{latest: r}
			windows[r.ChannelID] = w
			order = append(order, r.ChannelID)
		} else if !r.Date.Before(w.latest.Date) {
			w.latest = r
		}

		if r.Date.After(cutoff) {
			continue
		}
		if !w.hasPast || !r.Date.Before(w.past.Date) {
			w.past = r
			w.hasPast = true
		}
	}

	records := []model.GrowthRecord{}
	for _, id := range order {
		w := windows[id]
		if !w.hasPast {
			continue
		}

		latest := w.latest
		if !q.Subscribers.Contains(latest.Subscribers) ||
			!q.Videos.Contains(latest.Videos) ||
			latest.Views < q.MinViews {
			continue
		}

		records = append(records, model.GrowthRecord{
			ChannelID:    id,
			ChannelTitle: latest.ChannelTitle,
			Subscribers:  latest.Subscribers,
			Views:        latest.Views,
			Videos:       latest.Videos,
			SubGrowth:    int64(latest.Subscribers) - int64(w.past.Subscribers),
			ViewGrowth:   int64(latest.Views) - int64(w.past.Views),
			LatestDate:   latest.Date,
			PastDate:     w.past.Date,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SubGrowth > records[j].SubGrowth
	})

	return records, nil
}

// ChannelHistory returns the snapshots of one channel ordered by date,
// oldest first. Same-day rows keep their append order.
func ChannelHistory(rows []model.SnapshotRow, channelID string) []model.SnapshotRow {
	history := []model.SnapshotRow{}
	for _, r := range rows {
		if r.ChannelID == channelID {
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

// GrowthAnalyzer reads the snapshot store and computes growth views over it
type GrowthAnalyzer struct {
	store  store.SnapshotStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewGrowthAnalyzer creates a GrowthAnalyzer
func NewGrowthAnalyzer(st store.SnapshotStore, logger zerolog.Logger) *GrowthAnalyzer {
	return &GrowthAnalyzer{
		store:  st,
		now:    time.Now,
		logger: logger.With().Str("component", "growth_analyzer").Logger(),
	}
}

// Analyze computes growth for every tracked channel matching q
func (a *GrowthAnalyzer) Analyze(ctx context.Context, q GrowthQuery) ([]model.GrowthRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := a.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	records, err := ComputeGrowth(rows, q, a.now())
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Int("timeframe", q.Timeframe).
		Int("snapshots", len(rows)).
		Int("channels", len(records)).
		Msg("growth computed")

	return records, nil
}

// History returns the snapshot history of one channel
func (a *GrowthAnalyzer) History(ctx context.Context, channelID string) ([]model.SnapshotRow, error) {
	rows, err := a.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return ChannelHistory(rows, channelID), nil
}

// Summary returns dashboard statistics over the snapshot store
func (a *GrowthAnalyzer) Summary(ctx context.Context) (*Summary, error) {
	rows, err := a.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return Summarize(rows), nil
}

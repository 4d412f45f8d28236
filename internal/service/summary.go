package service

import (
	"time"

	"github.com/jjenkins/nichefinder/internal/model"
)

// Summary describes what the snapshot store currently tracks
type Summary struct {
	TrackedChannels int
	SnapshotRows    int
	SnapshotDays    int
	FirstDate       time.Time
	LastDate        time.Time
	// Largest is the channel with the most subscribers in its latest snapshot
	Largest *model.ChannelRecord
}

// Empty reports whether no snapshot has been taken yet
func (s *Summary) Empty() bool {
	return s.SnapshotRows == 0
}

// Summarize calculates store-wide statistics from rows
func Summarize(rows []model.SnapshotRow) *Summary {
	summary := &Summary{SnapshotRows: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	days := make(map[time.Time]bool)
	latest := make(map[string]model.SnapshotRow)
	var order []string

	for _, r := range rows {
		days[r.Date] = true
		if summary.FirstDate.IsZero() || r.Date.Before(summary.FirstDate) {
			summary.FirstDate = r.Date
		}
		if r.Date.After(summary.LastDate) {
			summary.LastDate = r.Date
		}

		prev, ok := latest[r.ChannelID]
		if !ok {
			order = append(order, r.ChannelID)
		}
		if !ok || !r.Date.Before(prev.Date) {
			latest[r.ChannelID] = r
		}
	}

	summary.TrackedChannels = len(latest)
	summary.SnapshotDays = len(days)

	for _, id := range order {
		r := latest[id]
		if summary.Largest == nil || r.Subscribers > summary.Largest.Subscribers {
			rec := r.ChannelRecord
			summary.Largest = &rec
		}
	}

	return summary
}

package model

import "time"

// ChannelRecord represents the public statistics of a channel at fetch time
type ChannelRecord struct {
	ChannelID    string
	ChannelTitle string
	Subscribers  uint64
	Views        uint64
	Videos       uint64
}

// ChannelHit is a raw channel search result
type ChannelHit struct {
	ChannelID    string
	ChannelTitle string
}

// SnapshotRow is a dated ChannelRecord. Rows are append-only.
type SnapshotRow struct {
	Date time.Time // calendar day, UTC midnight
	ChannelRecord
}

// GrowthRecord compares a channel's latest snapshot with its most recent
// snapshot at or before the growth cutoff.
type GrowthRecord struct {
	ChannelID    string
	ChannelTitle string
	Subscribers  uint64
	Views        uint64
	Videos       uint64
	SubGrowth    int64
	ViewGrowth   int64
	LatestDate   time.Time
	PastDate     time.Time
}

// SnapshotDate truncates t to its UTC calendar day
func SnapshotDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

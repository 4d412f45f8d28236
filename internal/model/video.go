package model

import "time"

// VideoRecord is one scored search hit. Records live for a single query.
type VideoRecord struct {
	VideoID       string
	Title         string
	ChannelID     string
	ChannelTitle  string
	Views         uint64
	Likes         uint64
	Comments      uint64
	Subscribers   uint64
	DemandScore   float64
	EngagementPct float64
	PublishedAt   time.Time
}

// VideoHit is a raw search result before statistics are attached
type VideoHit struct {
	VideoID      string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
}

// VideoStats holds the public counters of a video
type VideoStats struct {
	VideoID   string
	ChannelID string
	Views     uint64
	Likes     uint64
	Comments  uint64
}

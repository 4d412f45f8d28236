package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/model"
)

const (
	MinResults = 5
	MaxResults = 50
)

// VideoQuery are the user parameters of a niche search
type VideoQuery struct {
	Keyword    string
	MaxResults int
	RecentDays int // 0 disables the recency filter
}

// Validate checks the query before any API call is made
func (q VideoQuery) Validate() error {
	if strings.TrimSpace(q.Keyword) == "" {
		return model.ErrEmptyInput
	}
	if err := validateMaxResults(q.MaxResults); err != nil {
		return err
	}
	if q.RecentDays < 0 {
		return &model.ValidationError{Field: "recent days", Message: "must be 0 or more"}
	}
	return nil
}

func validateMaxResults(n int) error {
	if n < MinResults || n > MaxResults {
		return &model.ValidationError{
			Field:   "max results",
			Message: fmt.Sprintf("must be between %d and %d", MinResults, MaxResults),
		}
	}
	return nil
}

// VideoFetcher searches videos for a keyword and scores each hit
type VideoFetcher struct {
	api    VideoAPI
	now    func() time.Time
	logger zerolog.Logger
}

// NewVideoFetcher creates a VideoFetcher
func NewVideoFetcher(api VideoAPI, logger zerolog.Logger) *VideoFetcher {
	return &VideoFetcher{
		api:    api,
		now:    time.Now,
		logger: logger.With().Str("component", "video_fetcher").Logger(),
	}
}

// Fetch runs the search, applies the recency filter, attaches statistics and
// returns the records sorted by demand score, highest first. Any upstream
// failure discards the whole batch.
func (f *VideoFetcher) Fetch(ctx context.Context, q VideoQuery) ([]model.VideoRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	keyword := strings.TrimSpace(q.Keyword)

	hits, err := f.api.SearchVideos(ctx, keyword, int64(q.MaxResults))
	if err != nil {
		return nil, err
	}

	hits = filterRecent(hits, q.RecentDays, f.now())
	if len(hits) == 0 {
		f.logger.Info().Str("keyword", keyword).Msg("no videos found")
		return []model.VideoRecord{}, nil
	}

	videoIDs := make([]string, len(hits))
	for i, h := range hits {
		videoIDs[i] = h.VideoID
	}
	videoStats, err := f.api.VideoStats(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	channelIDs := make([]string, 0, len(hits))
	for _, h := range hits {
		s, ok := videoStats[h.VideoID]
		if !ok {
			return nil, &model.UpstreamError{Op: opVideosList, Err: fmt.Errorf("no statistics returned for video %s", h.VideoID)}
		}
		channelIDs = append(channelIDs, owningChannel(h, s))
	}

	channels, err := f.api.ChannelStats(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	records := make([]model.VideoRecord, 0, len(hits))
	for i, h := range hits {
		s := videoStats[h.VideoID]
		ch, ok := channels[channelIDs[i]]
		if !ok {
			return nil, &model.UpstreamError{Op: opChannelsList, Err: fmt.Errorf("no statistics returned for channel %s", channelIDs[i])}
		}

		records = append(records, model.VideoRecord{
			VideoID:       h.VideoID,
			Title:         h.Title,
			ChannelID:     channelIDs[i],
			ChannelTitle:  h.ChannelTitle,
			Views:         s.Views,
			Likes:         s.Likes,
			Comments:      s.Comments,
			Subscribers:   ch.Subscribers,
			DemandScore:   DemandScore(s.Views, ch.Subscribers),
			EngagementPct: EngagementPct(s.Likes, s.Comments, s.Views),
			PublishedAt:   h.PublishedAt,
		})
	}

	SortByDemand(records)

	f.logger.Info().
		Str("keyword", keyword).
		Int("hits", len(records)).
		Msg("video search complete")

	return records, nil
}

// SortByDemand orders records by demand score, highest first, keeping the
// relative order of equal scores.
func SortByDemand(records []model.VideoRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].DemandScore > records[j].DemandScore
	})
}

// filterRecent drops hits published before now-recentDays. A hit published
// exactly at the cutoff is kept.
func filterRecent(hits []model.VideoHit, recentDays int, now time.Time) []model.VideoHit {
	if recentDays <= 0 {
		return hits
	}

	cutoff := now.UTC().Add(-time.Duration(recentDays) * 24 * time.Hour)
	kept := hits[:0:0]
	for _, h := range hits {
		if h.PublishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}

// owningChannel prefers the channel reported by the statistics lookup
func owningChannel(h model.VideoHit, s model.VideoStats) string {
	if s.ChannelID != "" {
		return s.ChannelID
	}
	return h.ChannelID
}

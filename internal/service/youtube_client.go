package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
)

const (
	opSearchVideos   = "search.videos"
	opVideosList     = "videos.list"
	opChannelsList   = "channels.list"
	opSearchChannels = "search.channels"

	// maxIDsPerRequest is the id-list limit of videos.list and channels.list
	maxIDsPerRequest = 50
)

// VideoAPI is the subset of the video platform API the fetchers need.
type VideoAPI interface {
	SearchVideos(ctx context.Context, keyword string, maxResults int64) ([]model.VideoHit, error)
	VideoStats(ctx context.Context, videoIDs []string) (map[string]model.VideoStats, error)
	ChannelStats(ctx context.Context, channelIDs []string) (map[string]model.ChannelRecord, error)
	SearchChannels(ctx context.Context, keyword string, maxResults int64) ([]model.ChannelHit, error)
}

// YouTubeConfig configures a YouTubeClient
type YouTubeConfig struct {
	APIKey     string
	Endpoint   string // optional base URL override, must end with "/"
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// YouTubeClient wraps the YouTube Data API v3 service
type YouTubeClient struct {
	service *youtube.Service
	timeout time.Duration
	retry   Retrier
	metrics metrics.Recorder
	logger  zerolog.Logger
}

// NewYouTubeClient creates a client. It fails with model.ErrMissingCredential
// before any network activity when no API key is configured.
func NewYouTubeClient(ctx context.Context, cfg YouTubeConfig, rec metrics.Recorder, logger zerolog.Logger) (*YouTubeClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, model.ErrMissingCredential
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if rec == nil {
		rec = metrics.Nop
	}

	return &YouTubeClient{
		service: service,
		timeout: cfg.Timeout,
		retry:   Retrier{MaxRetries: cfg.MaxRetries, Backoff: cfg.Backoff},
		metrics: rec,
		logger:  logger.With().Str("component", "youtube").Logger(),
	}, nil
}

// call runs fn under the per-call timeout and retry policy, records metrics
// and wraps failures as an UpstreamError naming op.
func (c *YouTubeClient) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		start := time.Now()
		err := fn(callCtx)
		c.metrics.ObserveUpstream(op, err, time.Since(start))
		if err != nil {
			c.logger.Debug().Err(err).Str("op", op).Msg("upstream attempt failed")
		}
		return err
	})
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Msg("upstream call failed")
		return &model.UpstreamError{Op: op, Err: err}
	}
	return nil
}

// SearchVideos searches videos matching keyword ordered by view count
func (c *YouTubeClient) SearchVideos(ctx context.Context, keyword string, maxResults int64) ([]model.VideoHit, error) {
	var resp *youtube.SearchListResponse
	err := c.call(ctx, opSearchVideos, func(ctx context.Context) error {
		var err error
		resp, err = c.service.Search.List([]string{"id", "snippet"}).
			Q(keyword).
			Type("video").
			Order("viewCount").
			MaxResults(maxResults).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	hits := make([]model.VideoHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return nil, &model.UpstreamError{
				Op:  opSearchVideos,
				Err: fmt.Errorf("invalid publishedAt %q for video %s: %w", item.Snippet.PublishedAt, item.Id.VideoId, err),
			}
		}

		hits = append(hits, model.VideoHit{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  publishedAt.UTC(),
		})
	}

	return hits, nil
}

// VideoStats looks up statistics for videoIDs, batching up to 50 ids per request.
// Videos missing from the response are missing from the map.
func (c *YouTubeClient) VideoStats(ctx context.Context, videoIDs []string) (map[string]model.VideoStats, error) {
	stats := make(map[string]model.VideoStats, len(videoIDs))

	for _, batch := range batchIDs(videoIDs) {
		var resp *youtube.VideoListResponse
		err := c.call(ctx, opVideosList, func(ctx context.Context) error {
			var err error
			resp, err = c.service.Videos.List([]string{"statistics", "snippet"}).
				Id(strings.Join(batch, ",")).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, v := range resp.Items {
			s := model.VideoStats{VideoID: v.Id}
			if v.Snippet != nil {
				s.ChannelID = v.Snippet.ChannelId
			}
			if v.Statistics != nil {
				s.Views = v.Statistics.ViewCount
				s.Likes = v.Statistics.LikeCount
				s.Comments = v.Statistics.CommentCount
			}
			stats[v.Id] = s
		}
	}

	return stats, nil
}

// ChannelStats looks up statistics for channelIDs, batching up to 50 ids per request
func (c *YouTubeClient) ChannelStats(ctx context.Context, channelIDs []string) (map[string]model.ChannelRecord, error) {
	records := make(map[string]model.ChannelRecord, len(channelIDs))

	for _, batch := range batchIDs(channelIDs) {
		var resp *youtube.ChannelListResponse
		err := c.call(ctx, opChannelsList, func(ctx context.Context) error {
			var err error
			resp, err = c.service.Channels.List([]string{"statistics", "snippet"}).
				Id(strings.Join(batch, ",")).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, ch := range resp.Items {
			r := model.ChannelRecord{ChannelID: ch.Id}
			if ch.Snippet != nil {
				r.ChannelTitle = ch.Snippet.Title
			}
			if ch.Statistics != nil {
				r.Subscribers = ch.Statistics.SubscriberCount
				r.Views = ch.Statistics.ViewCount
				r.Videos = ch.Statistics.VideoCount
			}
			records[ch.Id] = r
		}
	}

	return records, nil
}

// SearchChannels searches channels matching keyword
func (c *YouTubeClient) SearchChannels(ctx context.Context, keyword string, maxResults int64) ([]model.ChannelHit, error) {
	var resp *youtube.SearchListResponse
	err := c.call(ctx, opSearchChannels, func(ctx context.Context) error {
		var err error
		resp, err = c.service.Search.List([]string{"snippet"}).
			Q(keyword).
			Type("channel").
			MaxResults(maxResults).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	hits := make([]model.ChannelHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ChannelId == "" {
			continue
		}
		hits = append(hits, model.ChannelHit{
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.Title,
		})
	}

	return hits, nil
}

// batchIDs de-duplicates ids, preserving first-seen order, and splits them
// into request-sized batches.
func batchIDs(ids []string) [][]string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var batches [][]string
	for len(unique) > 0 {
		n := min(len(unique), maxIDsPerRequest)
		batches = append(batches, unique[:n])
		unique = unique[n:]
	}
	return batches
}

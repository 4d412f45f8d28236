package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
)

const (
	opSuggest = "suggest"

	defaultSuggestEndpoint = "http://suggestqueries.google.com/complete/search"
	defaultTimeout         = 30 * time.Second
)

// SuggestClient fetches keyword suggestions from the autocomplete endpoint.
// It makes exactly one request per call and never caches.
type SuggestClient struct {
	client   *http.Client
	endpoint string
	metrics  metrics.Recorder
	logger   zerolog.Logger
}

// NewSuggestClient creates a SuggestClient. An empty endpoint selects the public one.
func NewSuggestClient(endpoint string, timeout time.Duration, rec metrics.Recorder, logger zerolog.Logger) *SuggestClient {
	if endpoint == "" {
		endpoint = defaultSuggestEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if rec == nil {
		rec = metrics.Nop
	}
	return &SuggestClient{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		metrics:  rec,
		logger:   logger.With().Str("component", "suggest").Logger(),
	}
}

// Suggest returns ranked suggestions for query. A non-200 response yields an
// empty list and no error; transport failures and malformed payloads are
// reported as an UpstreamError.
func (c *SuggestClient) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suggest endpoint: %w", err)
	}
	q := u.Query()
	q.Set("client", "firefox")
	q.Set("ds", "yt")
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(opSuggest, err, time.Since(start))
		c.logger.Error().Err(err).Str("query", query).Msg("suggest request failed")
		return nil, &model.UpstreamError{Op: opSuggest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveUpstream(opSuggest, &statusError{Code: resp.StatusCode}, time.Since(start))
		c.logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("suggest returned non-success status")
		return []string{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err == nil {
		var suggestions []string
		suggestions, err = ParseSuggestions(body)
		if err == nil {
			c.metrics.ObserveUpstream(opSuggest, nil, time.Since(start))
			return suggestions, nil
		}
	}

	c.metrics.ObserveUpstream(opSuggest, err, time.Since(start))
	c.logger.Error().Err(err).Str("query", query).Msg("suggest response unreadable")
	return nil, &model.UpstreamError{Op: opSuggest, Err: err}
}

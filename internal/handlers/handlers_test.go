package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jjenkins/nichefinder/internal/metrics"
	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
	"github.com/jjenkins/nichefinder/internal/store"
)

type fakeSuggester struct {
	suggestions []string
	err         error
}

func (f *fakeSuggester) Suggest(ctx context.Context, query string) ([]string, error) {
	return f.suggestions, f.err
}

type fakeVideos struct {
	records []model.VideoRecord
	err     error
	queries []service.VideoQuery
}

func (f *fakeVideos) Fetch(ctx context.Context, q service.VideoQuery) ([]model.VideoRecord, error) {
	f.queries = append(f.queries, q)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return f.records, f.err
}

type fakeChannels struct {
	result *service.ChannelResult
	err    error
	calls  int
}

func (f *fakeChannels) Fetch(ctx context.Context, keyword string, maxResults int) (*service.ChannelResult, error) {
	f.calls++
	return f.result, f.err
}

type testApp struct {
	app       *fiber.App
	snapshots *store.CSVStore
}

func newTestApp(t *testing.T, d Dependencies) *testApp {
	t.Helper()
	logger := zerolog.New(io.Discard)

	st := store.NewCSVStore(filepath.Join(t.TempDir(), "snapshots.csv"), logger)
	d.Snapshots = st
	d.Analyzer = service.NewGrowthAnalyzer(st, logger)
	d.Logger = logger
	if d.Suggester == nil {
		d.Suggester = &fakeSuggester{}
	}

	app := fiber.New()
	Register(app, d)
	return &testApp{app: app, snapshots: st}
}

func (a *testApp) get(t *testing.T, target string, headers ...string) (int, string, http.Header) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s): %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestHome_EmptyStore(t *testing.T) {
	a := newTestApp(t, Dependencies{})

	status, body, _ := a.get(t, "/")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "No snapshots yet") {
		t.Error("expected empty-state message")
	}
}

func TestSuggest_JSONAndFragment(t *testing.T) {
	a := newTestApp(t, Dependencies{Suggester: &fakeSuggester{suggestions: []string{"drone reviews 2026", "drone racing"}}})

	status, body, _ := a.get(t, "/suggest?q=drone")
	if status != fiber.StatusOK || body != `["drone reviews 2026","drone racing"]` {
		t.Errorf("JSON: status %d body %s", status, body)
	}

	status, body, _ = a.get(t, "/suggest?q=drone", "HX-Request", "true")
	if status != fiber.StatusOK || !strings.Contains(body, "drone racing") || strings.Contains(body, "<html") {
		t.Errorf("fragment: status %d body %s", status, body)
	}
}

func TestSuggest_UpstreamFailure(t *testing.T) {
	a := newTestApp(t, Dependencies{Suggester: &fakeSuggester{err: &model.UpstreamError{Op: "suggest", Err: errors.New("boom")}}})

	status, _, _ := a.get(t, "/suggest?q=drone")
	if status != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
}

func TestVideos_FirstVisitShowsForm(t *testing.T) {
	videos := &fakeVideos{}
	a := newTestApp(t, Dependencies{Videos: videos})

	status, body, _ := a.get(t, "/videos")
	if status != fiber.StatusOK || !strings.Contains(body, `name="keyword"`) {
		t.Errorf("status %d", status)
	}
	if len(videos.queries) != 0 {
		t.Error("no search expected on first visit")
	}
}

func TestVideos_MissingCredential(t *testing.T) {
	a := newTestApp(t, Dependencies{})

	status, body, _ := a.get(t, "/videos?keyword=")
	if status != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if !strings.Contains(body, "API_KEY") {
		t.Error("expected credential message")
	}
}

func TestVideos_StatusByErrorKind(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"blank keyword", "/videos?keyword=+", nil, fiber.StatusBadRequest},
		{"bad max", "/videos?keyword=x&max=lots", nil, fiber.StatusBadRequest},
		{"max out of range", "/videos?keyword=x&max=99", nil, fiber.StatusBadRequest},
		{"upstream", "/videos?keyword=x", &model.UpstreamError{Op: "videos.list", Err: errors.New("quota")}, fiber.StatusBadGateway},
		{"empty result", "/videos?keyword=x", nil, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, Dependencies{Videos: &fakeVideos{err: tt.err}})
			status, _, _ := a.get(t, tt.target)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestVideos_ResultsAndCSV(t *testing.T) {
	videos := &fakeVideos{records: []model.VideoRecord{
		{VideoID: "v1", Title: "Drone review", ChannelTitle: "Sky", Views: 1000, Subscribers: 9, DemandScore: 100, EngagementPct: 5},
	}}
	a := newTestApp(t, Dependencies{Videos: videos})

	status, body, _ := a.get(t, "/videos?keyword=drone+reviews&max=5&recent_days=7")
	if status != fiber.StatusOK || !strings.Contains(body, "Drone review") {
		t.Fatalf("status %d", status)
	}
	if q := videos.queries[0]; q.Keyword != "drone reviews" || q.MaxResults != 5 || q.RecentDays != 7 {
		t.Errorf("unexpected query: %+v", q)
	}

	status, body, header := a.get(t, "/videos?keyword=drone+reviews&max=5&format=csv")
	if status != fiber.StatusOK {
		t.Fatalf("csv status %d", status)
	}
	if cd := header.Get("Content-Disposition"); !strings.Contains(cd, "_niche_analysis.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(body, "Video Title,Channel,Views") || !strings.Contains(body, "Drone review,Sky,1000,9,100.00,5.00") {
		t.Errorf("unexpected csv: %s", body)
	}
}

func TestVideos_DownloadExportsRowsShown(t *testing.T) {
	videos := &fakeVideos{records: []model.VideoRecord{
		{VideoID: "v1", Title: "Drone review", ChannelTitle: "Sky", Views: 1000},
	}}
	a := newTestApp(t, Dependencies{Videos: videos})

	status, body, _ := a.get(t, "/videos?keyword=drone&max=5")
	if status != fiber.StatusOK {
		t.Fatalf("status %d", status)
	}
	m := regexp.MustCompile(`result=([0-9a-f-]{36})`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("expected a result id in the download link: %s", body)
	}
	if !strings.Contains(body, "Exports the rows shown below") {
		t.Error("expected the download note")
	}

	// a newer search order must not leak into the download
	videos.records = []model.VideoRecord{{VideoID: "v2", Title: "Newer upload", ChannelTitle: "Sky"}}

	status, body, _ = a.get(t, "/videos?keyword=drone&max=5&format=csv&result="+m[1])
	if status != fiber.StatusOK {
		t.Fatalf("csv status %d", status)
	}
	if !strings.Contains(body, "Drone review") || strings.Contains(body, "Newer upload") {
		t.Errorf("expected the rendered rows, got %s", body)
	}
	if len(videos.queries) != 1 {
		t.Errorf("download must not search again, got %d searches", len(videos.queries))
	}

	status, body, _ = a.get(t, "/videos?keyword=drone&max=5&format=csv&result=unknown")
	if status != fiber.StatusOK || !strings.Contains(body, "Newer upload") {
		t.Errorf("an unknown result id should search again: status %d csv %s", status, body)
	}
}

func TestRecentResults_EvictsOldest(t *testing.T) {
	r := newRecentResults(2)
	first := r.put(service.VideoQuery{Keyword: "a"}, nil)
	second := r.put(service.VideoQuery{Keyword: "b"}, nil)
	third := r.put(service.VideoQuery{Keyword: "c"}, nil)

	if _, ok := r.get(first); ok {
		t.Error("expected the oldest result to be evicted")
	}
	for _, id := range []string{second, third} {
		if _, ok := r.get(id); !ok {
			t.Errorf("expected %s to be kept", id)
		}
	}
}

func TestChannels_SnapshotAndExport(t *testing.T) {
	channels := &fakeChannels{result: &service.ChannelResult{
		Channels: []model.ChannelRecord{{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 10}},
		Appended: 1,
	}}
	a := newTestApp(t, Dependencies{Channels: channels})

	status, body, _ := a.get(t, "/channels?keyword=drone&max=5")
	if status != fiber.StatusOK || !strings.Contains(body, "Snapshot saved.") || !strings.Contains(body, "ids=UC1") {
		t.Fatalf("status %d body %s", status, body)
	}

	today := model.SnapshotDate(time.Now())
	rows := []model.SnapshotRow{
		{Date: today.AddDate(0, 0, -1), ChannelRecord: model.ChannelRecord{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 5}},
		{Date: today, ChannelRecord: model.ChannelRecord{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 10, Views: 3, Videos: 1}},
	}
	if err := a.snapshots.Append(context.Background(), rows); err != nil {
		t.Fatal(err)
	}

	status, body, header := a.get(t, "/channels?format=csv&ids=UC1,UC9")
	if status != fiber.StatusOK {
		t.Fatalf("csv status %d", status)
	}
	if !strings.Contains(header.Get("Content-Disposition"), "niche_results.csv") {
		t.Errorf("Content-Disposition = %q", header.Get("Content-Disposition"))
	}
	if body != "Channel,Channel ID,Subscribers,Views,Videos\nSky,UC1,10,3,1\n" {
		t.Errorf("unexpected csv: %q", body)
	}
	if channels.calls != 1 {
		t.Errorf("export must not fetch again, got %d calls", channels.calls)
	}
}

func TestChannels_MissingCredential(t *testing.T) {
	a := newTestApp(t, Dependencies{})

	status, _, _ := a.get(t, "/channels?keyword=drone")
	if status != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestGrowth_And_ChannelDetail(t *testing.T) {
	a := newTestApp(t, Dependencies{})

	today := model.SnapshotDate(time.Now())
	rows := []model.SnapshotRow{
		{Date: today.AddDate(0, 0, -10), ChannelRecord: model.ChannelRecord{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 100, Views: 1000, Videos: 5}},
		{Date: today, ChannelRecord: model.ChannelRecord{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 150, Views: 1500, Videos: 6}},
		{Date: today, ChannelRecord: model.ChannelRecord{ChannelID: "UC2", ChannelTitle: "New", Subscribers: 1, Views: 1, Videos: 1}},
	}
	if err := a.snapshots.Append(context.Background(), rows); err != nil {
		t.Fatal(err)
	}

	status, body, _ := a.get(t, "/growth?timeframe=7")
	if status != fiber.StatusOK || !strings.Contains(body, "+50") || strings.Contains(body, ">New<") {
		t.Errorf("status %d body %s", status, body)
	}

	status, body, _ = a.get(t, "/growth?timeframe=7&format=csv")
	if status != fiber.StatusOK || !strings.Contains(body, "Sky,UC1,150,1500,6,50,500,") {
		t.Errorf("unexpected csv: %s", body)
	}

	status, _, _ = a.get(t, "/growth?timeframe=14")
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}

	status, _, _ = a.get(t, "/growth?timeframe=7&min_subs=10&max_subs=5")
	if status != fiber.StatusBadRequest {
		t.Errorf("inverted range status = %d, want 400", status)
	}

	status, body, _ = a.get(t, "/growth?timeframe=7&format=csv&max_subs=0")
	if status != fiber.StatusOK || strings.Contains(body, "Sky") {
		t.Errorf("a zero max must bound the range: status %d csv %s", status, body)
	}

	status, body, _ = a.get(t, "/growth?timeframe=7&format=csv&max_subs=")
	if status != fiber.StatusOK || !strings.Contains(body, "Sky,UC1") {
		t.Errorf("a blank max must leave the range open: status %d csv %s", status, body)
	}

	status, body, _ = a.get(t, "/channels/UC1")
	if status != fiber.StatusOK || !strings.Contains(body, today.Format("2006-01-02")) {
		t.Errorf("detail status %d", status)
	}

	status, _, _ = a.get(t, "/channels/unknown")
	if status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg).ObserveUpstream("search.videos", nil, time.Millisecond)
	a := newTestApp(t, Dependencies{Gatherer: reg})

	status, body, _ := a.get(t, "/healthz")
	if status != fiber.StatusOK || body != "ok" {
		t.Errorf("healthz: %d %q", status, body)
	}

	status, body, _ = a.get(t, "/metrics")
	if status != fiber.StatusOK || !strings.Contains(body, "nichefinder_upstream_calls_total") {
		t.Errorf("metrics: %d", status)
	}
}

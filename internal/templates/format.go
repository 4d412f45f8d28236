// Package templates holds the dashboard's templ components. Edit the .templ
// files and run `templ generate`; the *_templ.go files are generated.
package templates

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
)

var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators
func formatCount(n uint64) string {
	return printer.Sprintf("%d", n)
}

func formatDelta(n int64) string {
	if n < 0 {
		return "-" + formatCount(uint64(-n))
	}
	return "+" + formatCount(uint64(n))
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// formatBound is the form value of a range's upper limit, blank when open
func formatBound(r service.Range) string {
	if !r.Bounded() {
		return ""
	}
	return strconv.FormatUint(*r.Max, 10)
}

// csvURL is the current view's URL with format=csv
func csvURL(path string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("format", "csv")
	return path + "?" + q.Encode()
}

func channelURL(id string) templ.SafeURL {
	return templ.URL("/channels/" + url.PathEscape(id))
}

func videoURL(id string) templ.SafeURL {
	return templ.URL("https://www.youtube.com/watch?v=" + url.QueryEscape(id))
}

func suggestionURL(keyword string) templ.SafeURL {
	return templ.URL("/videos?keyword=" + url.QueryEscape(keyword))
}

// GrowthParams encodes q as growth page query parameters. Open upper bounds
// are left out.
func GrowthParams(q service.GrowthQuery) url.Values {
	params := url.Values{}
	params.Set("timeframe", strconv.Itoa(q.Timeframe))
	params.Set("min_subs", strconv.FormatUint(q.Subscribers.Min, 10))
	if q.Subscribers.Bounded() {
		params.Set("max_subs", formatBound(q.Subscribers))
	}
	params.Set("min_videos", strconv.FormatUint(q.Videos.Min, 10))
	if q.Videos.Bounded() {
		params.Set("max_videos", formatBound(q.Videos))
	}
	params.Set("min_views", strconv.FormatUint(q.MinViews, 10))
	return params
}

// VideosCSVURL links the download for a rendered search, preferring the
// stored result over a fresh search
func VideosCSVURL(data VideosData) string {
	params := url.Values{}
	params.Set("keyword", data.Query.Keyword)
	params.Set("max", strconv.Itoa(data.Query.MaxResults))
	params.Set("recent_days", strconv.Itoa(data.Query.RecentDays))
	if data.ResultID != "" {
		params.Set("result", data.ResultID)
	}
	return csvURL("/videos", params)
}

func videosExportNote(data VideosData) string {
	if data.ResultID != "" {
		return "Exports the rows shown below."
	}
	return "Runs the search again; the file may differ from this table."
}

func channelsCSVURL(channels []model.ChannelRecord) string {
	ids := make([]string, len(channels))
	for i, c := range channels {
		ids[i] = c.ChannelID
	}
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	return csvURL("/channels", params)
}

func channelPageTitle(channelID string, history []model.SnapshotRow) string {
	if n := len(history); n > 0 && history[n-1].ChannelTitle != "" {
		return history[n-1].ChannelTitle
	}
	return channelID
}

func displayTitle(id, title string) string {
	if title == "" {
		return id
	}
	return title
}

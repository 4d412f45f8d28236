package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jjenkins/nichefinder/internal/model"
)

func TestWriteVideosCSV(t *testing.T) {
	records := []model.VideoRecord{{
		VideoID:       "v1",
		Title:         `Drone "X", reviewed`,
		ChannelTitle:  "Sky",
		Views:         1500,
		Subscribers:   99,
		DemandScore:   15,
		EngagementPct: 3.333,
		PublishedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	if err := WriteVideosCSV(&buf, records); err != nil {
		t.Fatal(err)
	}

	want := "Video Title,Channel,Views,Subscribers,Demand Score,Engagement %,Published At\n" +
		`"Drone ""X"", reviewed",Sky,1500,99,15.00,3.33,2026-10-01T12:00:00Z` + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteChannelsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteChannelsCSV(&buf, []model.ChannelRecord{{ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 10, Views: 20, Videos: 3}})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "Sky,UC1,10,20,3" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWriteGrowthCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGrowthCSV(&buf, []model.GrowthRecord{{
		ChannelID: "UC1", ChannelTitle: "Sky", Subscribers: 150, Views: 900, Videos: 4,
		SubGrowth: -5, ViewGrowth: 100, PastDate: today,
	}})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "Sky,UC1,150,900,4,-5,100,2026-10-19" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestVideosFilename(t *testing.T) {
	tests := map[string]string{
		"drone reviews": "drone reviews_niche_analysis.csv",
		" cats ":        "cats_niche_analysis.csv",
		"a/b\\c":        "a_b_c_niche_analysis.csv",
	}
	for keyword, want := range tests {
		if got := VideosFilename(keyword); got != want {
			t.Errorf("VideosFilename(%q) = %q, want %q", keyword, got, want)
		}
	}
}

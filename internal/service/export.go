package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jjenkins/nichefinder/internal/model"
)

const (
	ChannelsFilename = "niche_results.csv"
	GrowthFilename   = "channel_growth.csv"
)

var (
	videoColumns   = []string{"Video Title", "Channel", "Views", "Subscribers", "Demand Score", "Engagement %", "Published At"}
	channelColumns = []string{"Channel", "Channel ID", "Subscribers", "Views", "Videos"}
	growthColumns  = []string{"Channel", "Channel ID", "Subscribers", "Views", "Videos", "Subscriber Growth", "View Growth", "Compared To"}
)

// VideosFilename is the download name for a video table
func VideosFilename(keyword string) string {
	return safeFilename(strings.TrimSpace(keyword)) + "_niche_analysis.csv"
}

// safeFilename replaces characters that cannot appear in a download name
func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// WriteVideosCSV writes records as rendered in the video table
func WriteVideosCSV(w io.Writer, records []model.VideoRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(videoColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		err := cw.Write([]string{
			r.Title,
			r.ChannelTitle,
			formatCount(r.Views),
			formatCount(r.Subscribers),
			formatScore(r.DemandScore),
			formatScore(r.EngagementPct),
			r.PublishedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("failed to write video %s: %w", r.VideoID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteChannelsCSV writes records as rendered in the channel table
func WriteChannelsCSV(w io.Writer, records []model.ChannelRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(channelColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		err := cw.Write([]string{
			r.ChannelTitle,
			r.ChannelID,
			formatCount(r.Subscribers),
			formatCount(r.Views),
			formatCount(r.Videos),
		})
		if err != nil {
			return fmt.Errorf("failed to write channel %s: %w", r.ChannelID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGrowthCSV writes records as rendered in the growth table
func WriteGrowthCSV(w io.Writer, records []model.GrowthRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(growthColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		err := cw.Write([]string{
			r.ChannelTitle,
			r.ChannelID,
			formatCount(r.Subscribers),
			formatCount(r.Views),
			formatCount(r.Videos),
			strconv.FormatInt(r.SubGrowth, 10),
			strconv.FormatInt(r.ViewGrowth, 10),
			r.PastDate.Format("2006-01-02"),
		})
		if err != nil {
			return fmt.Errorf("failed to write channel %s: %w", r.ChannelID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCount(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

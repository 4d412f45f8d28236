package service

import (
	"testing"

	"github.com/jjenkins/nichefinder/internal/model"
)

func TestSummarize(t *testing.T) {
	rows := []model.SnapshotRow{
		row(10, "A", 500, 0, 1),
		row(10, "B", 900, 0, 1),
		row(0, "A", 1000, 0, 1),
		row(0, "B", 800, 0, 1),
		row(0, "B", 850, 0, 1),
	}

	s := Summarize(rows)
	if s.Empty() {
		t.Fatal("expected non-empty summary")
	}
	if s.TrackedChannels != 2 || s.SnapshotRows != 5 || s.SnapshotDays != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !s.FirstDate.Equal(today.AddDate(0, 0, -10)) || !s.LastDate.Equal(today) {
		t.Errorf("unexpected date span: %v - %v", s.FirstDate, s.LastDate)
	}
	// largest is judged on each channel's latest snapshot
	if s.Largest == nil || s.Largest.ChannelID != "A" || s.Largest.Subscribers != 1000 {
		t.Errorf("unexpected largest channel: %+v", s.Largest)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if !s.Empty() || s.Largest != nil || s.TrackedChannels != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
}

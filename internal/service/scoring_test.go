package service

import "testing"

func TestDemandScore(t *testing.T) {
	tests := []struct {
		views, subs uint64
		want        float64
	}{
		{0, 0, 0},
		{100, 0, 100},
		{1000, 99, 10},
		{1000, 2, 333.33},
		{2, 2, 0.67},
	}
	for _, tt := range tests {
		if got := DemandScore(tt.views, tt.subs); got != tt.want {
			t.Errorf("DemandScore(%d, %d) = %v, want %v", tt.views, tt.subs, got, tt.want)
		}
	}
}

func TestDemandScore_DecreasingInSubscribers(t *testing.T) {
	const views = 1_000_000
	prev := DemandScore(views, 0)
	for subs := uint64(1); subs <= 1000; subs++ {
		score := DemandScore(views, subs)
		if score >= prev {
			t.Fatalf("DemandScore(%d, %d) = %v, not below %v", views, subs, score, prev)
		}
		if score < 0 {
			t.Fatalf("DemandScore(%d, %d) = %v, want >= 0", views, subs, score)
		}
		prev = score
	}
}

func TestEngagementPct(t *testing.T) {
	tests := []struct {
		likes, comments, views uint64
		want                   float64
	}{
		{0, 0, 100, 0},
		{5, 5, 100, 10},
		{1, 0, 3, 33.33},
		{2, 0, 3, 66.67},
		{50, 10, 0, 0},
	}
	for _, tt := range tests {
		if got := EngagementPct(tt.likes, tt.comments, tt.views); got != tt.want {
			t.Errorf("EngagementPct(%d, %d, %d) = %v, want %v", tt.likes, tt.comments, tt.views, got, tt.want)
		}
	}
}

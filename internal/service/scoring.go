package service

import "math"

// DemandScore is views normalised by channel size, rounded to 2 decimals.
// The +1 keeps channels with no subscribers defined.
func DemandScore(views, subscribers uint64) float64 {
	return round2(float64(views) / (float64(subscribers) + 1))
}

// EngagementPct is (likes+comments)/views as a percentage, rounded to 2 decimals.
// It is 0 when the video has no views.
func EngagementPct(likes, comments, views uint64) float64 {
	if views == 0 {
		return 0
	}
	return round2((float64(likes) + float64(comments)) / float64(views) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

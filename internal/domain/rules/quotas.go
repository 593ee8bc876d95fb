package rules

import "time"

const (
	LikesPerDay = 15
	LikesWindow = 24 * time.Hour
)

// WindowStart is the lower bound of the trailing like window ending at now.
func WindowStart(now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = LikesWindow
	}
	return now.Add(-window)
}

// QuotaExceeded is true once used likes in the window reach the limit.
func QuotaExceeded(used, limit int) bool {
	if limit <= 0 {
		limit = LikesPerDay
	}
	return used >= limit
}

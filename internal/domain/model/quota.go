package model

import "time"

// LikeQuota is the sliding-window like budget of one user.
type LikeQuota struct {
	UserID      int64     `json:"user_id"`
	Limit       int       `json:"limit"`
	Used        int       `json:"used"`
	WindowStart time.Time `json:"window_start"`
}

func (q LikeQuota) Remaining() int {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}

func (q LikeQuota) Exhausted() bool {
	return q.Used >= q.Limit
}

package model

import "time"

type Like struct {
	FromUserID int64     `json:"from_user_id"`
	ToUserID   int64     `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeRequest carries the quota parameters a store enforces atomically.
type LikeRequest struct {
	FromUserID int64
	ToUserID   int64
	Limit      int
	Since      time.Time
}

// LikeOutcome is what a committed like changed.
// Inserted is false when the like already existed.
type LikeOutcome struct {
	Inserted     bool
	Mutual       bool
	MatchCreated bool
	UsedBefore   int
}

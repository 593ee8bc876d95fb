package model

type Stats struct {
	TotalProfiles  int64 `json:"total_profiles"`
	Approved       int64 `json:"approved"`
	Pending        int64 `json:"pending"`
	Rejected       int64 `json:"rejected"`
	Matches        int64 `json:"matches"`
	PendingReports int64 `json:"pending_reports"`
	LikesLast24h   int64 `json:"likes_today"`
}

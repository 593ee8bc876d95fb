package dto

import "time"

type ModeratorProfile struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username,omitempty"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	City       string    `json:"city"`
	Gender     string    `json:"gender"`
	PhotoURL   string    `json:"photo_url"`
	Bio        string    `json:"bio"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ModeratorReport struct {
	ID             int64     `json:"id"`
	ReporterID     int64     `json:"reporter_id"`
	ReportedUserID int64     `json:"reported_user_id"`
	ReporterName   *string   `json:"reporter_name"`
	ReportedName   *string   `json:"reported_name"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type ModeratorStats struct {
	TotalProfiles  int64 `json:"total_profiles"`
	Approved       int64 `json:"approved"`
	Pending        int64 `json:"pending"`
	Rejected       int64 `json:"rejected"`
	Matches        int64 `json:"matches"`
	PendingReports int64 `json:"pending_reports"`
	LikesToday     int64 `json:"likes_today"`
}

type PendingProfilesResponse struct {
	Success  bool               `json:"success"`
	Profiles []ModeratorProfile `json:"profiles"`
}

type PendingReportsResponse struct {
	Success bool              `json:"success"`
	Reports []ModeratorReport `json:"reports"`
}

type StatsResponse struct {
	Success bool           `json:"success"`
	Stats   ModeratorStats `json:"stats"`
}

type ProfileDecisionRequest struct {
	ProfileID int64 `json:"profile_id"`
}

type ProfileDecisionResponse struct {
	Success    bool  `json:"success"`
	TelegramID int64 `json:"telegram_id"`
}

type ReportDecisionRequest struct {
	ReportID int64 `json:"report_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

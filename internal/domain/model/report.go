package model

import (
	"time"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
)

type Report struct {
	ID             int64              `json:"id"`
	ReporterID     int64              `json:"reporter_id"`
	ReportedUserID int64              `json:"reported_user_id"`
	Reason         string             `json:"reason"`
	Status         enums.ReportStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ReportView is a report joined with the display names of both parties.
type ReportView struct {
	Report
	ReporterName string `json:"reporter_name"`
	ReportedName string `json:"reported_name"`
}

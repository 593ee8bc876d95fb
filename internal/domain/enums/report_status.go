package enums

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

func (s ReportStatus) IsOutcome() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

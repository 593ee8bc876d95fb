package enums

type ModerationStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"
)

// IsDecision reports whether s is a terminal moderation outcome.
func (s ModerationStatus) IsDecision() bool {
	return s == ModerationStatusApproved || s == ModerationStatusRejected
}

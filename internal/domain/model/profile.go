package model

import (
	"time"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
)

type Profile struct {
	ID         int64                  `json:"id"`
	TelegramID int64                  `json:"telegram_id"`
	Username   string                 `json:"username,omitempty"`
	Name       string                 `json:"name"`
	Age        int                    `json:"age"`
	City       string                 `json:"city"`
	Gender     enums.Gender           `json:"gender"`
	PhotoURL   string                 `json:"photo_url"`
	Bio        string                 `json:"bio"`
	Status     enums.ModerationStatus `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Handle renders the username as an @mention, empty when unknown.
func (p Profile) Handle() string {
	if p.Username == "" {
		return ""
	}
	return "@" + p.Username
}

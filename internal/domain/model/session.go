package model

import "time"

// AdminSession backs an issued moderator API token.
type AdminSession struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

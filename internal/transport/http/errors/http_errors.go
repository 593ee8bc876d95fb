package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is the failure envelope of the moderator API.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WebhookError is returned to Telegram when an update could not be stored.
type WebhookError struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Fail(w http.ResponseWriter, status int, message string) {
	Write(w, status, APIError{Success: false, Error: message})
}

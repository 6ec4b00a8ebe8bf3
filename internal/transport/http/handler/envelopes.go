package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the generic response wrapper. Success is always serialized so
// clients can branch on it without checking the status code.
type Envelope struct {
	Success           bool        `json:"success"`
	Message           string      `json:"message,omitempty"`
	Email             string      `json:"email,omitempty"`
	Phone             string      `json:"phone,omitempty"`
	Verified          bool        `json:"verified,omitempty"`
	AttemptsRemaining *int        `json:"attemptsRemaining,omitempty"`
	Note              string      `json:"note,omitempty"`
	Data              interface{} `json:"data,omitempty"`
	Error             string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

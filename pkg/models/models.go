package models

import (
	"encoding/json"
	"time"
)

// StatusFields are the only parts of a timeline item the harvester reads.
// Everything else stays in the raw payload.
type StatusFields struct {
	ID          *json.Number    `json:"id"`
	CreatedAt   string          `json:"created_at"`
	Coordinates json.RawMessage `json:"coordinates"`
	Place       json.RawMessage `json:"place"`
}

// ReachedLimit is the diagnostic record written when a user's timeline
// runs out of pages
type ReachedLimit struct {
	CustomStatus string  `json:"custom_status"`
	UserID       int64   `json:"user_id"`
	LimitDate    *string `json:"limit_date"`
}

// StatusReachedLimit is the custom_status value of a ReachedLimit record
const StatusReachedLimit = "reached_limit"

// NewReachedLimit builds the diagnostic for userID. lastSeen is the oldest
// post timestamp seen; zero yields a null limit_date.
func NewReachedLimit(userID int64, lastSeen time.Time) ReachedLimit {
	rec := ReachedLimit{CustomStatus: StatusReachedLimit, UserID: userID}
	if !lastSeen.IsZero() {
		d := lastSeen.UTC().Format("2006-01-02")
		rec.LimitDate = &d
	}
	return rec
}

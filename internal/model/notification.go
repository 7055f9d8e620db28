package model

import (
	"time"
)

// Notification is the status change message the checker publishes to Kafka.
// The realtime Kafka source consumes the same shape.
type Notification struct {
	SiteID    string    `json:"site_id"`
	URL       string    `json:"url"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	CheckedAt time.Time `json:"checked_at"`
}

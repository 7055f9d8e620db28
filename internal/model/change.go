package model

import "time"

type EventType string

const (
	EventAll    EventType = "*"
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// OldRecord identifies a deleted row.
type OldRecord struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// ChangeEvent is a row mutation notification for a table.
type ChangeEvent struct {
	Table           string     `json:"table"`
	Type            EventType  `json:"type"`
	Record          *Site      `json:"record,omitempty"`
	OldRecord       *OldRecord `json:"old_record,omitempty"`
	CommitTimestamp time.Time  `json:"commit_timestamp"`
}

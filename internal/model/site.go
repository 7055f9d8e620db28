package model

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

// Valid reports whether s is one of the statuses the sites table accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusUp, StatusDown:
		return true
	}
	return false
}

type Site struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Status        Status     `json:"status"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	UserID        string     `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

package dashboard

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/samims/stillup/internal/model"
)

const (
	EmptyMessage    = "No sites added yet. Start by adding one above!"
	AwaitingMessage = "Awaiting first check..."
	ConfirmRemove   = "Are you sure you want to remove this site?"
)

// Row is a site prepared for display.
type Row struct {
	model.Site
	Badge      string `json:"badge"`
	BadgeClass string `json:"badge_class"`
	Checked    string `json:"checked"`
}

// Rows formats sites relative to now.
func Rows(sites []model.Site, now time.Time) []Row {
	rows := make([]Row, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, NewRow(s, now))
	}
	return rows
}

func NewRow(s model.Site, now time.Time) Row {
	r := Row{Site: s, Badge: string(s.Status), Checked: AwaitingMessage}
	if r.Badge == "" {
		r.Badge = "PENDING"
	}

	switch s.Status {
	case model.StatusUp:
		r.BadgeClass = "badge-up"
	case model.StatusDown:
		r.BadgeClass = "badge-down"
	default:
		r.BadgeClass = "badge-pending"
	}

	if s.LastCheckedAt != nil {
		r.Checked = "Checked " + humanize.RelTime(*s.LastCheckedAt, now, "ago", "from now")
	}
	return r
}

// DeleteAlert is the message shown when a removal fails.
func DeleteAlert(err error) string {
	return "Failed to delete: " + err.Error()
}

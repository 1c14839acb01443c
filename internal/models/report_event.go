package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportEvent is one entry of a report's append-only audit trail.
type ReportEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Action    string    `gorm:"size:30;not null" json:"action"`
	Actor     string    `gorm:"size:64" json:"actor"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit trail actions.
const (
	EventCreated       = "created"
	EventCorrelated    = "correlated"
	EventInvestigating = "investigating"
	EventResolved      = "resolved"
	EventDismissed     = "dismissed"
	EventEscalated     = "escalated"
)

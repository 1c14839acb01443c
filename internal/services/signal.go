package services

import (
	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/models"
)

// Signal is the closed union of inputs accepted by the normalizer:
// a human report, an automated detector signal, or an admin flag.
type Signal interface {
	signal()
	listingID() uuid.UUID
}

// UserReport is a report submitted by a marketplace user or dealer.
type UserReport struct {
	ListingID   uuid.UUID
	ReporterID  string
	Dealer      bool
	Type        models.ReportType
	Description string
	Evidence    []string
}

// DetectorSignal is the typed output of an automated detector.
type DetectorSignal struct {
	ListingID  uuid.UUID
	Detector   string
	Type       models.ReportType
	Confidence int
	Details    string
	Evidence   []string
}

// AdminFlag is a report raised directly by an administrator.
type AdminFlag struct {
	ListingID   uuid.UUID
	AdminID     string
	Type        models.ReportType
	Description string
	Evidence    []string
}

func (UserReport) signal()     {}
func (DetectorSignal) signal() {}
func (AdminFlag) signal()      {}

func (r UserReport) listingID() uuid.UUID     { return r.ListingID }
func (d DetectorSignal) listingID() uuid.UUID { return d.ListingID }
func (f AdminFlag) listingID() uuid.UUID      { return f.ListingID }

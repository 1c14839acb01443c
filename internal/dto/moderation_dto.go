package dto

import "github.com/google/uuid"

type SubmitReportRequest struct {
	ListingID   uuid.UUID `json:"listing_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Evidence    []string  `json:"evidence"`
}

type SubmitDetectorSignalRequest struct {
	ListingID  uuid.UUID `json:"listing_id"`
	Detector   string    `json:"detector"`
	Type       string    `json:"type"`
	Confidence int       `json:"confidence"`
	Details    string    `json:"details"`
	Evidence   []string  `json:"evidence"`
}

type SubmitFlagRequest struct {
	ListingID   uuid.UUID `json:"listing_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Evidence    []string  `json:"evidence"`
}

type TransitionRequest struct {
	Notes       string `json:"notes"`
	Remediation string `json:"remediation,omitempty"`
}

type BulkTransitionRequest struct {
	IDs         []uuid.UUID `json:"ids"`
	Action      string      `json:"action"`
	Notes       string      `json:"notes"`
	Remediation string      `json:"remediation,omitempty"`
}

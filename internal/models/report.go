package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
)

type ReportType string

const (
	TypeContentMisleading    ReportType = "content-misleading"
	TypeContentInappropriate ReportType = "content-inappropriate"
	TypeFakeListing          ReportType = "fake-listing"
	TypePriceManipulation    ReportType = "price-manipulation"
	TypeQualityImages        ReportType = "quality-images"
	TypeQualityInfo          ReportType = "quality-info"
	TypeSpam                 ReportType = "spam"
	TypeDuplicate            ReportType = "duplicate"
	TypeOther                ReportType = "other"
)

// ReportTypes lists every accepted report type, in a stable order.
var ReportTypes = []ReportType{
	TypeContentMisleading,
	TypeContentInappropriate,
	TypeFakeListing,
	TypePriceManipulation,
	TypeQualityImages,
	TypeQualityInfo,
	TypeSpam,
	TypeDuplicate,
	TypeOther,
}

type ReportCategory string

const (
	CategoryContent  ReportCategory = "content"
	CategoryPricing  ReportCategory = "pricing"
	CategoryImages   ReportCategory = "images"
	CategoryBehavior ReportCategory = "behavior"
	CategoryQuality  ReportCategory = "quality"
)

// CategoryForType derives the correlation grouping from the report type.
// Different types sharing a category count as the same underlying issue
// for dedup purposes.
func CategoryForType(t ReportType) ReportCategory {
	switch t {
	case TypePriceManipulation:
		return CategoryPricing
	case TypeQualityImages:
		return CategoryImages
	case TypeFakeListing, TypeSpam, TypeDuplicate:
		return CategoryBehavior
	case TypeQualityInfo:
		return CategoryQuality
	default:
		return CategoryContent
	}
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// PriorityRank orders priorities for sorting: critical > high > medium > low.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

type Status string

const (
	StatusPending       Status = "pending"
	StatusInvestigating Status = "investigating"
	StatusResolved      Status = "resolved"
	StatusDismissed     Status = "dismissed"
	StatusEscalated     Status = "escalated"
)

// Terminal reports whether the status is a final disposition. There is no
// reopen path; terminal reports stay as written.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusDismissed || s == StatusEscalated
}

// Open reports whether the report still participates in correlation.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInvestigating
}

type SourceKind string

const (
	SourceUser     SourceKind = "user"
	SourceDealer   SourceKind = "dealer"
	SourceDetector SourceKind = "system-detector"
	SourceAdmin    SourceKind = "admin"
)

// Report is a single trackable moderation item. Rows are never deleted;
// the only mutations after creation are correlation merges and state
// machine transitions, both guarded by the version column.
type Report struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_reports_listing_category" json:"listing_id"`
	Type               ReportType     `gorm:"size:40;not null" json:"type"`
	Category           ReportCategory `gorm:"size:20;not null;index:idx_reports_listing_category" json:"category"`
	Priority           Priority       `gorm:"size:10;not null;index" json:"priority"`
	Status             Status         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Source             SourceKind     `gorm:"size:20;not null" json:"source"`
	SourceID           *string        `gorm:"size:64" json:"source_id,omitempty"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	Evidence           datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"evidence"`
	Confidence         *int           `json:"confidence,omitempty"`
	SimilarReportCount int            `gorm:"not null;default:0" json:"similar_report_count"`
	AssignedTo         *string        `gorm:"size:64" json:"assigned_to,omitempty"`
	ResolvedAt         *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy         *string        `gorm:"size:64" json:"resolved_by,omitempty"`
	ResolutionNotes    *string        `gorm:"type:text" json:"resolution_notes,omitempty"`
	Version            int            `gorm:"not null;default:1" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
}

// EvidenceList decodes the JSONB evidence column. Malformed rows decode
// to an empty list rather than failing a read path.
func (r *Report) EvidenceList() []string {
	if len(r.Evidence) == 0 {
		return nil
	}
	var refs []string
	if err := json.Unmarshal(r.Evidence, &refs); err != nil {
		return nil
	}
	return refs
}

// SetEvidence encodes evidence references into the JSONB column.
func (r *Report) SetEvidence(refs []string) {
	if refs == nil {
		refs = []string{}
	}
	b, _ := json.Marshal(refs)
	r.Evidence = datatypes.JSON(b)
}

// MergeEvidence appends new references, deduplicating while preserving
// the original order.
func (r *Report) MergeEvidence(refs []string) {
	merged := lo.Uniq(append(r.EvidenceList(), refs...))
	r.SetEvidence(merged)
}

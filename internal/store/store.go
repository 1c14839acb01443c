// Package store defines the report persistence port. Two adapters exist:
// gormstore for PostgreSQL and memstore for tests and local development.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/models"
)

type SortField string

const (
	SortByPriority   SortField = "priority"
	SortByConfidence SortField = "confidence"
	SortByCreatedAt  SortField = "created_at"
)

type Filter struct {
	Category   models.ReportCategory
	Priority   models.Priority
	Status     models.Status
	Type       models.ReportType
	AssignedTo string
	// Search matches description, listing title, and dealer name.
	Search string
}

type Sort struct {
	Field SortField
	Desc  bool
}

type Page struct {
	Limit  int
	Offset int
}

type Store interface {
	// Create persists a new report together with its initial audit event.
	Create(ctx context.Context, report *models.Report, ev models.ReportEvent) error

	// Get returns the report or a not-found error.
	Get(ctx context.Context, id uuid.UUID) (*models.Report, error)

	// FindOpenByListingCategory returns the most recently updated open
	// report for the key, or found=false when none exists.
	FindOpenByListingCategory(ctx context.Context, listingID uuid.UUID, category models.ReportCategory) (*models.Report, bool, error)

	// SaveCorrelated persists a correlation merge (evidence, similar count,
	// priority) as a compare-and-swap on the given version, appending the
	// audit event. Returns a conflict error when the version moved.
	SaveCorrelated(ctx context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error

	// SaveTransition persists a state-machine transition as a
	// compare-and-swap on the given version, appending the audit event.
	// Returns a conflict error when the version moved.
	SaveTransition(ctx context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error

	// List returns a filtered, sorted page of reports plus the total count
	// for the filter. Read-only.
	List(ctx context.Context, filter Filter, sort Sort, page Page) ([]models.Report, int64, error)

	// Events returns the audit trail for a report, oldest first.
	Events(ctx context.Context, reportID uuid.UUID) ([]models.ReportEvent, error)
}

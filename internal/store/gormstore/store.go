// Package gormstore is the PostgreSQL adapter of the report store.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, report *models.Report, ev models.ReportEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return moderr.Wrap(moderr.KindInternal, err, "failed to create report")
		}
		ev.ReportID = report.ID
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if err := tx.Create(&ev).Error; err != nil {
			return moderr.Wrap(moderr.KindInternal, err, "failed to create report event")
		}
		return nil
	})
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, moderr.Newf(moderr.KindNotFound, "report %s not found", id)
	}
	if err != nil {
		return nil, moderr.Wrap(moderr.KindInternal, err, "failed to fetch report")
	}
	return &report, nil
}

func (s *GormStore) FindOpenByListingCategory(ctx context.Context, listingID uuid.UUID, category models.ReportCategory) (*models.Report, bool, error) {
	var report models.Report
	err := s.db.WithContext(ctx).
		Where("listing_id = ? AND category = ? AND status IN ?",
			listingID, category, []models.Status{models.StatusPending, models.StatusInvestigating}).
		Order("updated_at DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, moderr.Wrap(moderr.KindInternal, err, "failed to query open reports")
	}
	return &report, true, nil
}

func (s *GormStore) SaveCorrelated(ctx context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error {
	updates := map[string]interface{}{
		"evidence":             report.Evidence,
		"similar_report_count": report.SimilarReportCount,
		"priority":             report.Priority,
		"version":              expectedVersion + 1,
	}
	return s.casUpdate(ctx, report, expectedVersion, updates, ev)
}

func (s *GormStore) SaveTransition(ctx context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error {
	updates := map[string]interface{}{
		"status":           report.Status,
		"assigned_to":      report.AssignedTo,
		"resolved_at":      report.ResolvedAt,
		"resolved_by":      report.ResolvedBy,
		"resolution_notes": report.ResolutionNotes,
		"version":          expectedVersion + 1,
	}
	return s.casUpdate(ctx, report, expectedVersion, updates, ev)
}

// casUpdate applies updates guarded by the version column and appends the
// audit event in the same transaction. RowsAffected 0 on an existing row
// means another writer won the race.
func (s *GormStore) casUpdate(ctx context.Context, report *models.Report, expectedVersion int, updates map[string]interface{}, ev models.ReportEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND version = ?", report.ID, expectedVersion).
			Updates(updates)
		if result.Error != nil {
			return moderr.Wrap(moderr.KindInternal, result.Error, "failed to update report")
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Count(&count).Error; err != nil {
				return moderr.Wrap(moderr.KindInternal, err, "failed to verify report")
			}
			if count == 0 {
				return moderr.Newf(moderr.KindNotFound, "report %s not found", report.ID)
			}
			return moderr.Newf(moderr.KindConflict, "report %s was modified concurrently", report.ID)
		}
		report.Version = expectedVersion + 1

		ev.ReportID = report.ID
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if err := tx.Create(&ev).Error; err != nil {
			return moderr.Wrap(moderr.KindInternal, err, "failed to create report event")
		}
		return nil
	})
}

func (s *GormStore) List(ctx context.Context, filter store.Filter, sort store.Sort, page store.Page) ([]models.Report, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{})

	if filter.Category != "" {
		query = query.Where("reports.category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("reports.priority = ?", filter.Priority)
	}
	if filter.Status != "" {
		query = query.Where("reports.status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("reports.type = ?", filter.Type)
	}
	if filter.AssignedTo != "" {
		query = query.Where("reports.assigned_to = ?", filter.AssignedTo)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN listings ON listings.id = reports.listing_id").
			Where("reports.description ILIKE ? OR listings.title ILIKE ? OR listings.dealer_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, moderr.Wrap(moderr.KindInternal, err, "failed to count reports")
	}

	limit := page.Limit
	if limit <= 0 {
		limit = 20
	}

	var reports []models.Report
	err := query.Order(orderExpr(sort)).Limit(limit).Offset(page.Offset).Find(&reports).Error
	if err != nil {
		return nil, 0, moderr.Wrap(moderr.KindInternal, err, "failed to list reports")
	}
	return reports, total, nil
}

func orderExpr(sort store.Sort) string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	switch sort.Field {
	case store.SortByPriority:
		return fmt.Sprintf("CASE reports.priority WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END %s, reports.created_at DESC", dir)
	case store.SortByConfidence:
		return "reports.confidence " + dir + " NULLS LAST"
	default:
		return "reports.created_at " + dir
	}
}

func (s *GormStore) Events(ctx context.Context, reportID uuid.UUID) ([]models.ReportEvent, error) {
	var events []models.ReportEvent
	err := s.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, moderr.Wrap(moderr.KindInternal, err, "failed to list report events")
	}
	return events, nil
}

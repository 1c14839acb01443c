package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReportQuery is a moderator's view request over the report set.
type ReportQuery struct {
	Filter store.Filter
	Sort   store.Sort
	Limit  int
	Offset int
}

type ReportPage struct {
	Items  []models.Report `json:"items"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// QueueService is the read-only projection over reports for moderator
// consumption. No business logic beyond filtering and sorting lives here.
type QueueService struct {
	store store.Store
}

func NewQueueService(st store.Store) *QueueService {
	return &QueueService{store: st}
}

func (s *QueueService) ListReports(ctx context.Context, q ReportQuery) (*ReportPage, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.store.List(ctx, q.Filter, q.Sort, store.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReportPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetReport returns a report together with its audit trail.
func (s *QueueService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, []models.ReportEvent, error) {
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.store.Events(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return report, events, nil
}

func validateQuery(q ReportQuery) error {
	if f := q.Filter.Category; f != "" {
		switch f {
		case models.CategoryContent, models.CategoryPricing, models.CategoryImages, models.CategoryBehavior, models.CategoryQuality:
		default:
			return moderr.Newf(moderr.KindValidation, "unknown category %q", f)
		}
	}
	if f := q.Filter.Priority; f != "" {
		switch f {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		default:
			return moderr.Newf(moderr.KindValidation, "unknown priority %q", f)
		}
	}
	if f := q.Filter.Status; f != "" {
		switch f {
		case models.StatusPending, models.StatusInvestigating, models.StatusResolved, models.StatusDismissed, models.StatusEscalated:
		default:
			return moderr.Newf(moderr.KindValidation, "unknown status %q", f)
		}
	}
	if f := q.Filter.Type; f != "" {
		known := false
		for _, t := range models.ReportTypes {
			if t == f {
				known = true
				break
			}
		}
		if !known {
			return moderr.Newf(moderr.KindValidation, "unknown report type %q", f)
		}
	}
	if f := q.Sort.Field; f != "" {
		switch f {
		case store.SortByPriority, store.SortByConfidence, store.SortByCreatedAt:
		default:
			return moderr.Newf(moderr.KindValidation, "unknown sort field %q", f)
		}
	}
	return nil
}

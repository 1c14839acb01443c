// Package memstore is a mutex-guarded in-memory adapter of the report
// store, used by tests and local development.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*models.Report
	events  map[uuid.UUID][]models.ReportEvent

	// Meta resolves listing title and dealer name for free-text search.
	// Nil limits search to report descriptions.
	Meta func(listingID uuid.UUID) (title, dealerName string)
}

func New() *Store {
	return &Store{
		reports: make(map[uuid.UUID]*models.Report),
		events:  make(map[uuid.UUID][]models.ReportEvent),
	}
}

func (s *Store) Create(_ context.Context, report *models.Report, ev models.ReportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	if report.Version == 0 {
		report.Version = 1
	}
	s.reports[report.ID] = clone(report)
	s.appendEvent(report.ID, ev)
	return nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, moderr.Newf(moderr.KindNotFound, "report %s not found", id)
	}
	return clone(r), nil
}

func (s *Store) FindOpenByListingCategory(_ context.Context, listingID uuid.UUID, category models.ReportCategory) (*models.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *models.Report
	for _, r := range s.reports {
		if r.ListingID != listingID || r.Category != category || !r.Status.Open() {
			continue
		}
		if newest == nil || r.UpdatedAt.After(newest.UpdatedAt) {
			newest = r
		}
	}
	if newest == nil {
		return nil, false, nil
	}
	return clone(newest), true, nil
}

func (s *Store) SaveCorrelated(_ context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.casTarget(report.ID, expectedVersion)
	if err != nil {
		return err
	}
	stored.Evidence = append(stored.Evidence[:0:0], report.Evidence...)
	stored.SimilarReportCount = report.SimilarReportCount
	stored.Priority = report.Priority
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = time.Now().UTC()
	report.Version = stored.Version

	s.appendEvent(report.ID, ev)
	return nil
}

func (s *Store) SaveTransition(_ context.Context, report *models.Report, expectedVersion int, ev models.ReportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.casTarget(report.ID, expectedVersion)
	if err != nil {
		return err
	}
	stored.Status = report.Status
	stored.AssignedTo = report.AssignedTo
	stored.ResolvedAt = report.ResolvedAt
	stored.ResolvedBy = report.ResolvedBy
	stored.ResolutionNotes = report.ResolutionNotes
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = time.Now().UTC()
	report.Version = stored.Version

	s.appendEvent(report.ID, ev)
	return nil
}

func (s *Store) casTarget(id uuid.UUID, expectedVersion int) (*models.Report, error) {
	stored, ok := s.reports[id]
	if !ok {
		return nil, moderr.Newf(moderr.KindNotFound, "report %s not found", id)
	}
	if stored.Version != expectedVersion {
		return nil, moderr.Newf(moderr.KindConflict, "report %s was modified concurrently", id)
	}
	return stored, nil
}

func (s *Store) List(_ context.Context, filter store.Filter, sortBy store.Sort, page store.Page) ([]models.Report, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Report
	for _, r := range s.reports {
		if s.matches(r, filter) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch sortBy.Field {
		case store.SortByPriority:
			ra, rb := models.PriorityRank(a.Priority), models.PriorityRank(b.Priority)
			if ra == rb {
				return a.CreatedAt.After(b.CreatedAt)
			}
			less = ra < rb
		case store.SortByConfidence:
			ca, cb := confidenceOf(a), confidenceOf(b)
			if ca == cb {
				return a.CreatedAt.After(b.CreatedAt)
			}
			less = ca < cb
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if sortBy.Desc {
			return !less
		}
		return less
	})

	total := int64(len(matched))

	limit := page.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := page.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]models.Report, 0, end-offset)
	for _, r := range matched[offset:end] {
		items = append(items, *clone(r))
	}
	return items, total, nil
}

func (s *Store) matches(r *models.Report, filter store.Filter) bool {
	if filter.Category != "" && r.Category != filter.Category {
		return false
	}
	if filter.Priority != "" && r.Priority != filter.Priority {
		return false
	}
	if filter.Status != "" && r.Status != filter.Status {
		return false
	}
	if filter.Type != "" && r.Type != filter.Type {
		return false
	}
	if filter.AssignedTo != "" && (r.AssignedTo == nil || *r.AssignedTo != filter.AssignedTo) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		hay := strings.ToLower(r.Description)
		if s.Meta != nil {
			title, dealer := s.Meta(r.ListingID)
			hay += "\n" + strings.ToLower(title) + "\n" + strings.ToLower(dealer)
		}
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

func confidenceOf(r *models.Report) int {
	if r.Confidence == nil {
		return -1
	}
	return *r.Confidence
}

func (s *Store) Events(_ context.Context, reportID uuid.UUID) ([]models.ReportEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[reportID]
	out := make([]models.ReportEvent, len(events))
	copy(out, events)
	return out, nil
}

func (s *Store) appendEvent(reportID uuid.UUID, ev models.ReportEvent) {
	ev.ReportID = reportID
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	s.events[reportID] = append(s.events[reportID], ev)
}

func clone(r *models.Report) *models.Report {
	c := *r
	c.Evidence = append(r.Evidence[:0:0], r.Evidence...)
	return &c
}

package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/leandro-lugaresi/hub"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store/memstore"
)

type appliedRemediation struct {
	ListingID uuid.UUID
	Action    catalog.RemediationAction
}

type fakeCatalog struct {
	mu           sync.Mutex
	listings     map[uuid.UUID]*models.Listing
	remediations []appliedRemediation
}

func newFakeCatalog(listings ...*models.Listing) *fakeCatalog {
	c := &fakeCatalog{listings: make(map[uuid.UUID]*models.Listing)}
	for _, l := range listings {
		c.listings[l.ID] = l
	}
	return c
}

func (c *fakeCatalog) GetListing(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.listings[id]
	if !ok {
		return nil, moderr.Newf(moderr.KindUnknownListing, "listing %s not found", id)
	}
	copied := *l
	return &copied, nil
}

func (c *fakeCatalog) ApplyRemediation(_ context.Context, listingID uuid.UUID, action catalog.RemediationAction) error {
	if !catalog.ValidRemediation(action) {
		return moderr.Newf(moderr.KindValidation, "unknown remediation action %q", action)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remediations = append(c.remediations, appliedRemediation{ListingID: listingID, Action: action})
	return nil
}

func (c *fakeCatalog) applied() []appliedRemediation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]appliedRemediation, len(c.remediations))
	copy(out, c.remediations)
	return out
}

type testEnv struct {
	store    *memstore.Store
	catalog  *fakeCatalog
	hub      *hub.Hub
	reports  *ReportService
	workflow *WorkflowService
	queue    *QueueService
}

func newTestEnv(listings ...*models.Listing) *testEnv {
	st := memstore.New()
	cat := newFakeCatalog(listings...)
	st.Meta = func(listingID uuid.UUID) (string, string) {
		l, err := cat.GetListing(context.Background(), listingID)
		if err != nil {
			return "", ""
		}
		return l.Title, l.DealerName
	}
	h := hub.New()
	reports := NewReportService(st, cat, h)
	return &testEnv{
		store:    st,
		catalog:  cat,
		hub:      h,
		reports:  reports,
		workflow: NewWorkflowService(st, cat, h, 4),
		queue:    NewQueueService(st),
	}
}

func testListing() *models.Listing {
	return &models.Listing{
		ID:              uuid.New(),
		DealerID:        uuid.New(),
		DealerName:      "Hilltop Motors",
		Title:           "2019 Honda Civic EX",
		Make:            "Honda",
		Model:           "Civic",
		Year:            2019,
		Mileage:         48000,
		VIN:             "2HGFC2F59KH000000",
		Price:           17500,
		Description:     "Well maintained single-owner Civic with full service history and new tires.",
		ImageCount:      6,
		HasPrimaryImage: true,
		Published:       true,
	}
}

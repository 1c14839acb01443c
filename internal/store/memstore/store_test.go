package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

func newReport(listingID uuid.UUID, category models.ReportCategory, status models.Status) *models.Report {
	return &models.Report{
		ID:          uuid.New(),
		ListingID:   listingID,
		Type:        models.TypeSpam,
		Category:    category,
		Source:      models.SourceUser,
		Priority:    models.PriorityLow,
		Status:      status,
		Description: "looks off",
	}
}

func TestCreateAndGet(t *testing.T) {
	st := New()
	ctx := context.Background()

	r := newReport(uuid.New(), models.CategoryBehavior, models.StatusPending)
	require.NoError(t, st.Create(ctx, r, models.ReportEvent{Action: models.EventCreated, Actor: "user-1"}))
	assert.Equal(t, 1, r.Version)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := st.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	// Get hands out a copy; mutating it must not leak into the store.
	got.Status = models.StatusResolved
	again, err := st.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, again.Status)

	_, err = st.Get(ctx, uuid.New())
	assert.True(t, moderr.IsKind(err, moderr.KindNotFound))

	events, err := st.Events(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, r.ID, events[0].ReportID)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
}

func TestSaveTransitionVersionCheck(t *testing.T) {
	st := New()
	ctx := context.Background()

	r := newReport(uuid.New(), models.CategoryBehavior, models.StatusPending)
	require.NoError(t, st.Create(ctx, r, models.ReportEvent{Action: models.EventCreated}))

	mod := "mod-1"
	r.Status = models.StatusInvestigating
	r.AssignedTo = &mod
	require.NoError(t, st.SaveTransition(ctx, r, 1, models.ReportEvent{Action: models.EventInvestigating, Actor: mod}))
	assert.Equal(t, 2, r.Version)

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *r
		stale.Status = models.StatusDismissed
		err := st.SaveTransition(ctx, &stale, 1, models.ReportEvent{Action: models.EventDismissed})
		assert.True(t, moderr.IsKind(err, moderr.KindConflict))

		stored, err := st.Get(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInvestigating, stored.Status)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("missing report", func(t *testing.T) {
		ghost := newReport(uuid.New(), models.CategoryContent, models.StatusPending)
		err := st.SaveTransition(ctx, ghost, 1, models.ReportEvent{Action: models.EventDismissed})
		assert.True(t, moderr.IsKind(err, moderr.KindNotFound))
	})
}

func TestSaveCorrelatedVersionCheck(t *testing.T) {
	st := New()
	ctx := context.Background()

	r := newReport(uuid.New(), models.CategoryBehavior, models.StatusPending)
	r.SetEvidence([]string{"evidence://1"})
	require.NoError(t, st.Create(ctx, r, models.ReportEvent{Action: models.EventCreated}))

	r.MergeEvidence([]string{"evidence://2"})
	r.SimilarReportCount = 1
	require.NoError(t, st.SaveCorrelated(ctx, r, 1, models.ReportEvent{Action: models.EventCorrelated}))
	assert.Equal(t, 2, r.Version)

	stored, err := st.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SimilarReportCount)
	assert.Equal(t, []string{"evidence://1", "evidence://2"}, stored.EvidenceList())

	err = st.SaveCorrelated(ctx, r, 1, models.ReportEvent{Action: models.EventCorrelated})
	assert.True(t, moderr.IsKind(err, moderr.KindConflict))
}

func TestFindOpenByListingCategory(t *testing.T) {
	st := New()
	ctx := context.Background()
	listingID := uuid.New()

	t.Run("empty store", func(t *testing.T) {
		_, found, err := st.FindOpenByListingCategory(ctx, listingID, models.CategoryBehavior)
		require.NoError(t, err)
		assert.False(t, found)
	})

	closed := newReport(listingID, models.CategoryBehavior, models.StatusDismissed)
	require.NoError(t, st.Create(ctx, closed, models.ReportEvent{Action: models.EventCreated}))

	otherCategory := newReport(listingID, models.CategoryPricing, models.StatusPending)
	require.NoError(t, st.Create(ctx, otherCategory, models.ReportEvent{Action: models.EventCreated}))

	otherListing := newReport(uuid.New(), models.CategoryBehavior, models.StatusPending)
	require.NoError(t, st.Create(ctx, otherListing, models.ReportEvent{Action: models.EventCreated}))

	t.Run("closed and unrelated reports are invisible", func(t *testing.T) {
		_, found, err := st.FindOpenByListingCategory(ctx, listingID, models.CategoryBehavior)
		require.NoError(t, err)
		assert.False(t, found)
	})

	open := newReport(listingID, models.CategoryBehavior, models.StatusPending)
	require.NoError(t, st.Create(ctx, open, models.ReportEvent{Action: models.EventCreated}))

	t.Run("open report in the listing's category is found", func(t *testing.T) {
		got, found, err := st.FindOpenByListingCategory(ctx, listingID, models.CategoryBehavior)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, open.ID, got.ID)
	})

	t.Run("investigating still counts as open", func(t *testing.T) {
		open.Status = models.StatusInvestigating
		require.NoError(t, st.SaveTransition(ctx, open, 1, models.ReportEvent{Action: models.EventInvestigating}))

		_, found, err := st.FindOpenByListingCategory(ctx, listingID, models.CategoryBehavior)
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestListDefaults(t *testing.T) {
	st := New()
	ctx := context.Background()
	listingID := uuid.New()

	for i := 0; i < 25; i++ {
		r := newReport(listingID, models.CategoryContent, models.StatusPending)
		r.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, st.Create(ctx, r, models.ReportEvent{Action: models.EventCreated}))
	}

	items, total, err := st.List(ctx, store.Filter{}, store.Sort{}, store.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, items, 20, "zero limit falls back to the default page size")

	items, _, err = st.List(ctx, store.Filter{}, store.Sort{}, store.Page{Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Empty(t, items, "offset past the end returns an empty page")
}

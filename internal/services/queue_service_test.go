package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

// seedQueue opens four reports across distinct categories so every one
// stays separate: critical (behavior), high (pricing), medium (content),
// low (quality).
func seedQueue(t *testing.T, env *testEnv, listing *models.Listing) map[models.Priority]uuid.UUID {
	t.Helper()
	ctx := context.Background()
	ids := make(map[models.Priority]uuid.UUID)

	critical, err := env.reports.SubmitSignal(ctx, DetectorSignal{
		ListingID:  listing.ID,
		Detector:   "fraud-model",
		Type:       models.TypeFakeListing,
		Confidence: 92,
	})
	require.NoError(t, err)
	ids[models.PriorityCritical] = critical.ReportID

	high, err := env.reports.SubmitSignal(ctx, UserReport{
		ListingID:   listing.ID,
		ReporterID:  "user-1",
		Type:        models.TypePriceManipulation,
		Description: "price jumped right after my offer",
	})
	require.NoError(t, err)
	ids[models.PriorityHigh] = high.ReportID

	medium, err := env.reports.SubmitSignal(ctx, UserReport{
		ListingID:   listing.ID,
		ReporterID:  "user-2",
		Type:        models.TypeContentMisleading,
		Description: "description claims one owner, carfax says three",
	})
	require.NoError(t, err)
	ids[models.PriorityMedium] = medium.ReportID

	low, err := env.reports.SubmitSignal(ctx, UserReport{
		ListingID:   listing.ID,
		ReporterID:  "user-3",
		Type:        models.TypeQualityInfo,
		Description: "listing is missing half the basic details",
	})
	require.NoError(t, err)
	ids[models.PriorityLow] = low.ReportID

	return ids
}

func TestListReportsFilters(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	ids := seedQueue(t, env, listing)

	t.Run("no filter returns everything", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Len(t, page.Items, 4)
	})

	t.Run("by category", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Category: models.CategoryPricing}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, ids[models.PriorityHigh], page.Items[0].ID)
	})

	t.Run("by priority", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Priority: models.PriorityCritical}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, ids[models.PriorityCritical], page.Items[0].ID)
	})

	t.Run("by type", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Type: models.TypeContentMisleading}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, ids[models.PriorityMedium], page.Items[0].ID)
	})

	t.Run("by status and assignee", func(t *testing.T) {
		_, err := env.workflow.Investigate(ctx, ids[models.PriorityCritical], "mod-9")
		require.NoError(t, err)

		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Status: models.StatusInvestigating}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, ids[models.PriorityCritical], page.Items[0].ID)

		page, err = env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{AssignedTo: "mod-9"}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)

		page, err = env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{AssignedTo: "mod-other"}})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestListReportsSortByPriority(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	seedQueue(t, env, listing)

	page, err := env.queue.ListReports(ctx, ReportQuery{
		Sort: store.Sort{Field: store.SortByPriority, Desc: true},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)

	got := make([]models.Priority, 0, 4)
	for _, r := range page.Items {
		got = append(got, r.Priority)
	}
	assert.Equal(t, []models.Priority{
		models.PriorityCritical,
		models.PriorityHigh,
		models.PriorityMedium,
		models.PriorityLow,
	}, got)
}

func TestListReportsSortByConfidence(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	seedQueue(t, env, listing)

	page, err := env.queue.ListReports(ctx, ReportQuery{
		Sort: store.Sort{Field: store.SortByConfidence, Desc: true},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)

	// The detector report is the only one carrying a confidence score.
	require.NotNil(t, page.Items[0].Confidence)
	assert.Equal(t, 92, *page.Items[0].Confidence)
}

func TestListReportsPagination(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	seedQueue(t, env, listing)

	page, err := env.queue.ListReports(ctx, ReportQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Limit)

	page, err = env.queue.ListReports(ctx, ReportQuery{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Len(t, page.Items, 1)

	t.Run("limit clamps to the maximum", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Limit: 5000})
		require.NoError(t, err)
		assert.Equal(t, 100, page.Limit)
	})

	t.Run("negative offset resets to zero", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Offset: -10})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Offset)
		assert.Len(t, page.Items, 4)
	})
}

func TestListReportsSearch(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	seedQueue(t, env, listing)

	t.Run("matches report description", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Search: "carfax"}})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, models.TypeContentMisleading, page.Items[0].Type)
	})

	t.Run("matches listing title and dealer name", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Search: "civic"}})
		require.NoError(t, err)
		assert.Len(t, page.Items, 4)

		page, err = env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Search: "hilltop"}})
		require.NoError(t, err)
		assert.Len(t, page.Items, 4)
	})

	t.Run("no match", func(t *testing.T) {
		page, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Search: "lamborghini"}})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestListReportsValidation(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()

	cases := []ReportQuery{
		{Filter: store.Filter{Category: "weather"}},
		{Filter: store.Filter{Priority: "urgent"}},
		{Filter: store.Filter{Status: "paused"}},
		{Filter: store.Filter{Type: "gossip"}},
		{Sort: store.Sort{Field: "listing_id"}},
	}
	for _, q := range cases {
		_, err := env.queue.ListReports(ctx, q)
		assert.True(t, moderr.IsKind(err, moderr.KindValidation), "query %+v", q)
	}
}

func TestGetReport(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	ctx := context.Background()
	ids := seedQueue(t, env, listing)

	id := ids[models.PriorityCritical]
	_, err := env.workflow.Investigate(ctx, id, "mod-1")
	require.NoError(t, err)

	report, events, err := env.queue.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, report.ID)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventCreated, events[0].Action)
	assert.Equal(t, models.EventInvestigating, events[1].Action)

	_, _, err = env.queue.GetReport(ctx, uuid.New())
	assert.True(t, moderr.IsKind(err, moderr.KindNotFound))
}

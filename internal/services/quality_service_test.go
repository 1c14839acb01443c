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

func newQualityService(env *testEnv, thresholds QualityThresholds) *QualityService {
	svc := NewQualityService(env.catalog, env.reports, thresholds)
	svc.nowYear = func() int { return 2026 }
	return svc
}

func defaultThresholds() QualityThresholds {
	return QualityThresholds{Completeness: 60, Images: 60, Price: 60, Content: 60}
}

func checkFor(t *testing.T, checks []QualityCheck, category QualityCategory) QualityCheck {
	t.Helper()
	for _, c := range checks {
		if c.Category == category {
			return c
		}
	}
	t.Fatalf("no %s check in assessment", category)
	return QualityCheck{}
}

func TestRunAssessmentHealthyListing(t *testing.T) {
	listing := testListing()
	env := newTestEnv(listing)
	svc := newQualityService(env, defaultThresholds())

	checks, err := svc.RunAssessment(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Len(t, checks, 4)

	for _, check := range checks {
		assert.Equal(t, 100, check.Score, "%s should score perfectly", check.Category)
		assert.Empty(t, check.Issues, "%s", check.Category)
	}

	page, err := env.queue.ListReports(context.Background(), ReportQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items, "a healthy listing must not open reports")
}

func TestRunAssessmentBareListing(t *testing.T) {
	bare := &models.Listing{ID: uuid.New(), DealerID: uuid.New(), Published: true}
	env := newTestEnv(bare)
	svc := newQualityService(env, defaultThresholds())
	ctx := context.Background()

	checks, err := svc.RunAssessment(ctx, bare.ID)
	require.NoError(t, err)

	completeness := checkFor(t, checks, QualityInformationCompleteness)
	assert.Equal(t, 0, completeness.Score)
	assert.Len(t, completeness.Issues, 8)
	assert.Len(t, completeness.Suggestions, 8)

	images := checkFor(t, checks, QualityImageQuality)
	assert.Equal(t, 0, images.Score)
	assert.Contains(t, images.Issues, "no_images")

	price := checkFor(t, checks, QualityPriceAccuracy)
	assert.Equal(t, 0, price.Score)
	assert.Contains(t, price.Issues, "price_missing")

	// An empty description loses only the length points, landing exactly on
	// the threshold, so content alone does not breach.
	content := checkFor(t, checks, QualityContentQuality)
	assert.Equal(t, 60, content.Score)

	// Completeness and price both breach with the quality-info type and
	// correlate into one quality report; images opens its own.
	page, err := env.queue.ListReports(ctx, ReportQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)

	qualityPage, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Category: models.CategoryQuality}})
	require.NoError(t, err)
	require.Len(t, qualityPage.Items, 1)
	qualityReport := qualityPage.Items[0]
	assert.Equal(t, models.TypeQualityInfo, qualityReport.Type)
	assert.Equal(t, models.SourceDetector, qualityReport.Source)
	assert.Equal(t, 1, qualityReport.SimilarReportCount)
	assert.Equal(t, models.PriorityLow, qualityReport.Priority)

	imagePage, err := env.queue.ListReports(ctx, ReportQuery{Filter: store.Filter{Category: models.CategoryImages}})
	require.NoError(t, err)
	require.Len(t, imagePage.Items, 1)
	assert.Equal(t, models.TypeQualityImages, imagePage.Items[0].Type)
	assert.Equal(t, models.PriorityMedium, imagePage.Items[0].Priority)
}

func TestRunAssessmentUnknownListing(t *testing.T) {
	env := newTestEnv()
	svc := newQualityService(env, defaultThresholds())

	_, err := svc.RunAssessment(context.Background(), uuid.New())
	assert.True(t, moderr.IsKind(err, moderr.KindUnknownListing))
}

func TestZeroThresholdsDisableSignals(t *testing.T) {
	bare := &models.Listing{ID: uuid.New(), DealerID: uuid.New()}
	env := newTestEnv(bare)
	svc := newQualityService(env, QualityThresholds{})

	_, err := svc.RunAssessment(context.Background(), bare.ID)
	require.NoError(t, err)

	page, err := env.queue.ListReports(context.Background(), ReportQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestAssessImages(t *testing.T) {
	cases := []struct {
		name       string
		count      int
		hasPrimary bool
		wantScore  int
		wantIssues []string
	}{
		{"none", 0, false, 0, []string{"no_images"}},
		{"one without primary", 1, false, 30, []string{"too_few_images", "no_primary_image"}},
		{"two with primary", 2, true, 70, []string{"too_few_images"}},
		{"four with primary", 4, true, 100, nil},
		{"many caps at max", 12, true, 100, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			check := assessImages(&models.Listing{ImageCount: tc.count, HasPrimaryImage: tc.hasPrimary})
			assert.Equal(t, tc.wantScore, check.Score)
			assert.Equal(t, tc.wantIssues, check.Issues)
		})
	}
}

func TestAssessPrice(t *testing.T) {
	base := func() *models.Listing {
		l := testListing()
		return l
	}

	t.Run("in band", func(t *testing.T) {
		check := assessPrice(base(), 2026)
		assert.Equal(t, 100, check.Score)
		assert.Empty(t, check.Issues)
	})

	t.Run("far above market", func(t *testing.T) {
		l := base()
		l.Price = 60000
		check := assessPrice(l, 2026)
		assert.Equal(t, 20, check.Score)
		assert.Contains(t, check.Issues, "price_above_market")
	})

	t.Run("suspiciously cheap", func(t *testing.T) {
		l := base()
		l.Price = 4000
		check := assessPrice(l, 2026)
		assert.Less(t, check.Score, 100)
		assert.Contains(t, check.Issues, "price_below_market")
	})

	t.Run("no year means no band", func(t *testing.T) {
		l := base()
		l.Year = 0
		check := assessPrice(l, 2026)
		assert.Equal(t, 100, check.Score)
	})
}

func TestAssessContent(t *testing.T) {
	base := func(desc string) *models.Listing {
		l := testListing()
		l.Description = desc
		return l
	}

	t.Run("clean description", func(t *testing.T) {
		check := assessContent(base("Garage kept with complete maintenance records, recent brakes and tires."))
		assert.Equal(t, 100, check.Score)
	})

	t.Run("url and contact info", func(t *testing.T) {
		check := assessContent(base("Great car, more photos at https://example.com or call 555-123-4567 anytime today."))
		assert.Equal(t, 50, check.Score)
		assert.Contains(t, check.Issues, "contains_url")
		assert.Contains(t, check.Issues, "contains_contact_info")
	})

	t.Run("shouty spam floors at zero", func(t *testing.T) {
		// Short, shouty, repeated punctuation, a url and an email address:
		// every deduction fires at once.
		check := assessContent(base("WOWOW CHEAP NOWNOW!!!!! a@b.co www.x.io"))
		assert.Equal(t, 0, check.Score)
	})
}

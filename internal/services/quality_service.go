package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/models"
)

type QualityCategory string

const (
	QualityInformationCompleteness QualityCategory = "information-completeness"
	QualityImageQuality            QualityCategory = "image-quality"
	QualityPriceAccuracy           QualityCategory = "price-accuracy"
	QualityContentQuality          QualityCategory = "content-quality"
)

// QualityCheck is a computed, non-persisted assessment of one category.
type QualityCheck struct {
	Category    QualityCategory `json:"category"`
	Score       int             `json:"score"`
	MaxScore    int             `json:"max_score"`
	Issues      []string        `json:"issues"`
	Suggestions []string        `json:"suggestions"`
}

// QualityThresholds holds the per-category minimum scores below which an
// assessment emits a detector signal.
type QualityThresholds struct {
	Completeness int
	Images       int
	Price        int
	Content      int
}

// Content checks reuse the marketplace's description hygiene patterns.
var (
	urlPattern          = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	emailPattern        = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern        = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	repeatedCharPattern = regexp.MustCompile(`(!{4,}|\?{4,}|\.{4,})`)
	allCapsPattern      = regexp.MustCompile(`[A-Z]{5,}`)
)

// QualityService independently scores listing quality and feeds threshold
// breaches back into the report pipeline as detector signals.
type QualityService struct {
	catalog    catalog.Service
	reports    *ReportService
	thresholds QualityThresholds

	// nowYear is injectable for deterministic price-band tests.
	nowYear func() int
}

func NewQualityService(cat catalog.Service, reports *ReportService, thresholds QualityThresholds) *QualityService {
	return &QualityService{
		catalog:    cat,
		reports:    reports,
		thresholds: thresholds,
		nowYear:    func() int { return time.Now().UTC().Year() },
	}
}

// RunAssessment scores all four categories for a listing. Categories that
// fall below their threshold submit a quality detector signal; a signal
// submission failure is logged and does not fail the assessment.
func (s *QualityService) RunAssessment(ctx context.Context, listingID uuid.UUID) ([]QualityCheck, error) {
	listing, err := s.catalog.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	checks := []QualityCheck{
		assessCompleteness(listing),
		assessImages(listing),
		assessPrice(listing, s.nowYear()),
		assessContent(listing),
	}

	for _, check := range checks {
		if check.Score >= s.threshold(check.Category) {
			continue
		}
		signal := DetectorSignal{
			ListingID:  listingID,
			Detector:   "quality-assessor",
			Type:       signalTypeFor(check.Category),
			Confidence: 100 - check.Score,
			Details:    fmt.Sprintf("%s scored %d/%d: %s", check.Category, check.Score, check.MaxScore, strings.Join(check.Issues, ", ")),
			Evidence:   evidenceRefs(check),
		}
		if _, err := s.reports.SubmitSignal(ctx, signal); err != nil {
			slog.Error("quality signal submission failed",
				"listing_id", listingID.String(),
				"category", string(check.Category),
				"error", err,
			)
		}
	}
	return checks, nil
}

func (s *QualityService) threshold(c QualityCategory) int {
	switch c {
	case QualityImageQuality:
		return s.thresholds.Images
	case QualityPriceAccuracy:
		return s.thresholds.Price
	case QualityContentQuality:
		return s.thresholds.Content
	default:
		return s.thresholds.Completeness
	}
}

// Lower quality means higher confidence of a real defect, so breaches
// route into the pipeline as quality-typed detector signals. Image
// defects keep their own type; the rest share quality-info and correlate
// into one open quality report per listing.
func signalTypeFor(c QualityCategory) models.ReportType {
	if c == QualityImageQuality {
		return models.TypeQualityImages
	}
	return models.TypeQualityInfo
}

func evidenceRefs(check QualityCheck) []string {
	refs := make([]string, len(check.Issues))
	for i, issue := range check.Issues {
		refs[i] = fmt.Sprintf("quality:%s:%s", check.Category, issue)
	}
	return refs
}

func assessCompleteness(l *models.Listing) QualityCheck {
	check := QualityCheck{Category: QualityInformationCompleteness, MaxScore: 100}

	type field struct {
		populated  bool
		issue      string
		suggestion string
	}
	fields := []field{
		{l.Title != "", "missing_title", "Add a descriptive listing title."},
		{l.Make != "", "missing_make", "Specify the vehicle make."},
		{l.Model != "", "missing_model", "Specify the vehicle model."},
		{l.Year > 0, "missing_year", "Add the model year."},
		{l.Mileage > 0, "missing_mileage", "Record the current mileage."},
		{l.VIN != "", "missing_vin", "Provide the VIN for buyer verification."},
		{l.Price > 0, "missing_price", "Set an asking price."},
		{l.Description != "", "missing_description", "Write a vehicle description."},
	}

	populated := 0
	for _, f := range fields {
		if f.populated {
			populated++
			continue
		}
		check.Issues = append(check.Issues, f.issue)
		check.Suggestions = append(check.Suggestions, f.suggestion)
	}
	check.Score = int(math.Round(float64(populated) / float64(len(fields)) * 100))
	return check
}

func assessImages(l *models.Listing) QualityCheck {
	check := QualityCheck{Category: QualityImageQuality, MaxScore: 100}

	if l.ImageCount == 0 {
		check.Score = 0
		check.Issues = append(check.Issues, "no_images")
		check.Suggestions = append(check.Suggestions, "Upload photos of the vehicle.")
		return check
	}

	score := 40 + 15*l.ImageCount
	if score > 100 {
		score = 100
	}
	if l.ImageCount < 3 {
		check.Issues = append(check.Issues, "too_few_images")
		check.Suggestions = append(check.Suggestions, "Add at least 3 photos covering exterior and interior.")
	}
	if !l.HasPrimaryImage {
		score -= 25
		check.Issues = append(check.Issues, "no_primary_image")
		check.Suggestions = append(check.Suggestions, "Choose a primary photo for search results.")
	}
	if score < 0 {
		score = 0
	}
	check.Score = score
	return check
}

// assessPrice scores the asking price against a depreciation band derived
// from year and mileage. The band is coarse on purpose: it exists to catch
// entry errors and bait pricing, not to appraise the vehicle.
func assessPrice(l *models.Listing, currentYear int) QualityCheck {
	check := QualityCheck{Category: QualityPriceAccuracy, MaxScore: 100}

	if l.Price <= 0 {
		check.Score = 0
		check.Issues = append(check.Issues, "price_missing")
		check.Suggestions = append(check.Suggestions, "Set an asking price.")
		return check
	}
	if l.Year <= 0 {
		// No year, no band; treat as acceptable rather than guessing.
		check.Score = 100
		return check
	}

	age := currentYear - l.Year
	if age < 0 {
		age = 0
	}
	if age > 30 {
		age = 30
	}
	reference := 52000 * math.Pow(0.88, float64(age))
	mileageFactor := 1 - float64(l.Mileage)/400000
	if mileageFactor < 0.4 {
		mileageFactor = 0.4
	}
	reference *= mileageFactor

	deviation := math.Abs(l.Price-reference) / reference
	switch {
	case deviation <= 0.25:
		check.Score = 100
	case deviation >= 1.5:
		check.Score = 20
	default:
		check.Score = int(math.Round(100 - (deviation-0.25)/1.25*80))
	}

	if deviation > 0.25 {
		if l.Price > reference {
			check.Issues = append(check.Issues, "price_above_market")
			check.Suggestions = append(check.Suggestions, "Review the asking price against comparable listings.")
		} else {
			check.Issues = append(check.Issues, "price_below_market")
			check.Suggestions = append(check.Suggestions, "Verify the price; unusually low prices deter trust and attract fraud reports.")
		}
	}
	return check
}

func assessContent(l *models.Listing) QualityCheck {
	check := QualityCheck{Category: QualityContentQuality, MaxScore: 100}
	score := 100

	desc := l.Description
	if len(strings.TrimSpace(desc)) < 40 {
		score -= 40
		check.Issues = append(check.Issues, "description_too_short")
		check.Suggestions = append(check.Suggestions, "Describe the vehicle's condition, history, and features.")
	}
	if urlPattern.MatchString(desc) {
		score -= 25
		check.Issues = append(check.Issues, "contains_url")
		check.Suggestions = append(check.Suggestions, "Remove external links from the description.")
	}
	if emailPattern.MatchString(desc) || phonePattern.MatchString(desc) {
		score -= 25
		check.Issues = append(check.Issues, "contains_contact_info")
		check.Suggestions = append(check.Suggestions, "Remove contact details; buyers reach you through the marketplace.")
	}
	if repeatedCharPattern.MatchString(desc) {
		score -= 15
		check.Issues = append(check.Issues, "repeated_punctuation")
		check.Suggestions = append(check.Suggestions, "Clean up repeated punctuation.")
	}
	if len(allCapsPattern.FindAllString(desc, -1)) > 2 {
		score -= 15
		check.Issues = append(check.Issues, "excessive_caps")
		check.Suggestions = append(check.Suggestions, "Avoid writing in all capitals.")
	}
	if score < 0 {
		score = 0
	}
	check.Score = score
	return check
}

package services

import (
	"github.com/otomarket/moderation-backend/internal/models"
)

// PriorityFor computes the review priority of a report. It is the single
// place the scoring policy lives; it runs at creation and at correlation
// time (when the similar-report count changes), never in the background,
// so a moderator's view stays stable within a review session.
//
// Base priority by type, then two ordered adjustments: a low-confidence
// automated signal drops one level (floor low); two or more correlated
// signals raise one level (ceiling critical).
func PriorityFor(t models.ReportType, source models.SourceKind, confidence *int, similarCount int) models.Priority {
	p := basePriority(t)
	if source == models.SourceDetector && confidence != nil && *confidence < 50 {
		p = downgrade(p)
	}
	if similarCount >= 2 {
		p = upgrade(p)
	}
	return p
}

func basePriority(t models.ReportType) models.Priority {
	switch t {
	case models.TypeFakeListing, models.TypeContentInappropriate:
		return models.PriorityCritical
	case models.TypePriceManipulation, models.TypeDuplicate:
		return models.PriorityHigh
	case models.TypeContentMisleading, models.TypeQualityImages:
		return models.PriorityMedium
	default:
		// spam, other, quality-info
		return models.PriorityLow
	}
}

func downgrade(p models.Priority) models.Priority {
	switch p {
	case models.PriorityCritical:
		return models.PriorityHigh
	case models.PriorityHigh:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityLow
	default:
		return models.PriorityLow
	}
}

func upgrade(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	default:
		return models.PriorityCritical
	}
}

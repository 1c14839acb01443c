package services

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
)

var reportTypeRule = validation.In(func() []interface{} {
	types := make([]interface{}, len(models.ReportTypes))
	for i, t := range models.ReportTypes {
		types[i] = t
	}
	return types
}()...).Error("unknown report type")

// Normalizer converts heterogeneous signals into candidate reports. It
// validates input and checks listing existence against the catalog; it
// never persists anything.
type Normalizer struct {
	catalog catalog.Service
}

func NewNormalizer(cat catalog.Service) *Normalizer {
	return &Normalizer{catalog: cat}
}

// Normalize produces an unpersisted candidate report. Priority is left
// unset; the scorer assigns it once the similar-report count is known.
func (n *Normalizer) Normalize(ctx context.Context, sig Signal) (*models.Report, error) {
	if sig.listingID() == uuid.Nil {
		return nil, moderr.New(moderr.KindValidation, "listing id is required")
	}

	var candidate *models.Report
	switch s := sig.(type) {
	case UserReport:
		if err := validation.ValidateStruct(&s,
			validation.Field(&s.ReporterID, validation.Required.Error("reporter id is required")),
			validation.Field(&s.Type, validation.Required, reportTypeRule),
			validation.Field(&s.Description, validation.Required.Error("description is required")),
		); err != nil {
			return nil, moderr.Wrap(moderr.KindValidation, err, "invalid user report")
		}
		source := models.SourceUser
		if s.Dealer {
			source = models.SourceDealer
		}
		reporterID := s.ReporterID
		candidate = newCandidate(s.ListingID, s.Type, source, &reporterID, s.Description, s.Evidence, nil)

	case DetectorSignal:
		if err := validation.ValidateStruct(&s,
			validation.Field(&s.Detector, validation.Required.Error("detector name is required")),
			validation.Field(&s.Type, validation.Required, reportTypeRule),
		); err != nil {
			return nil, moderr.Wrap(moderr.KindValidation, err, "invalid detector signal")
		}
		if s.Confidence < 0 || s.Confidence > 100 {
			return nil, moderr.Newf(moderr.KindOutOfRange, "confidence %d outside [0,100]", s.Confidence)
		}
		description := s.Details
		if description == "" {
			description = fmt.Sprintf("detector %s flagged %s with confidence %d", s.Detector, s.Type, s.Confidence)
		}
		detector := s.Detector
		confidence := s.Confidence
		candidate = newCandidate(s.ListingID, s.Type, models.SourceDetector, &detector, description, s.Evidence, &confidence)

	case AdminFlag:
		if err := validation.ValidateStruct(&s,
			validation.Field(&s.AdminID, validation.Required.Error("admin id is required")),
			validation.Field(&s.Type, validation.Required, reportTypeRule),
			validation.Field(&s.Description, validation.Required.Error("description is required")),
		); err != nil {
			return nil, moderr.Wrap(moderr.KindValidation, err, "invalid admin flag")
		}
		adminID := s.AdminID
		candidate = newCandidate(s.ListingID, s.Type, models.SourceAdmin, &adminID, s.Description, s.Evidence, nil)

	default:
		return nil, moderr.New(moderr.KindValidation, "unsupported signal shape")
	}

	// The catalog is authoritative for listing existence.
	if _, err := n.catalog.GetListing(ctx, candidate.ListingID); err != nil {
		return nil, err
	}
	return candidate, nil
}

func newCandidate(listingID uuid.UUID, t models.ReportType, source models.SourceKind, sourceID *string, description string, evidence []string, confidence *int) *models.Report {
	r := &models.Report{
		ID:          uuid.New(),
		ListingID:   listingID,
		Type:        t,
		Category:    models.CategoryForType(t),
		Status:      models.StatusPending,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
		Confidence:  confidence,
		Version:     1,
	}
	r.SetEvidence(evidence)
	return r
}

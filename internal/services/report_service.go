package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leandro-lugaresi/hub"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/event"
	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

// correlateAttempts bounds the retry loop when a correlation merge loses a
// version race against a concurrent transition.
const correlateAttempts = 3

type SubmitResult struct {
	ReportID   uuid.UUID `json:"report_id"`
	Correlated bool      `json:"correlated"`
}

// ReportService runs the ingestion pipeline: normalize, correlate against
// open reports, score, persist, publish.
type ReportService struct {
	store      store.Store
	normalizer *Normalizer
	hub        *hub.Hub
	keys       keyedMutex
}

func NewReportService(st store.Store, cat catalog.Service, h *hub.Hub) *ReportService {
	return &ReportService{
		store:      st,
		normalizer: NewNormalizer(cat),
		hub:        h,
	}
}

// SubmitSignal ingests one signal. Concurrent signals for the same
// (listing, category) key are serialized here so exactly one open report
// exists per key; later arrivals merge into it.
func (s *ReportService) SubmitSignal(ctx context.Context, sig Signal) (*SubmitResult, error) {
	candidate, err := s.normalizer.Normalize(ctx, sig)
	if err != nil {
		return nil, err
	}

	unlock := s.keys.lock(candidate.ListingID.String() + "|" + string(candidate.Category))
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < correlateAttempts; attempt++ {
		existing, found, err := s.store.FindOpenByListingCategory(ctx, candidate.ListingID, candidate.Category)
		if err != nil {
			return nil, err
		}

		if !found {
			return s.create(ctx, candidate)
		}

		result, err := s.merge(ctx, existing, candidate)
		if err == nil {
			return result, nil
		}
		// A transition on the matched report won the version race; the
		// report may now be terminal, so re-run the open-report lookup.
		if !moderr.IsKind(err, moderr.KindConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *ReportService) merge(ctx context.Context, existing, candidate *models.Report) (*SubmitResult, error) {
	existing.MergeEvidence(candidate.EvidenceList())
	existing.SimilarReportCount++
	existing.Priority = PriorityFor(existing.Type, existing.Source, existing.Confidence, existing.SimilarReportCount)

	ev := models.ReportEvent{
		Action: models.EventCorrelated,
		Actor:  actorOf(candidate),
		Note:   fmt.Sprintf("merged %s signal from %s source", candidate.Type, candidate.Source),
	}
	if err := s.store.SaveCorrelated(ctx, existing, existing.Version, ev); err != nil {
		return nil, err
	}

	slog.Info("report correlated",
		"report_id", existing.ID.String(),
		"listing_id", existing.ListingID.String(),
		"similar_report_count", existing.SimilarReportCount,
		"priority", string(existing.Priority),
	)
	return &SubmitResult{ReportID: existing.ID, Correlated: true}, nil
}

func (s *ReportService) create(ctx context.Context, candidate *models.Report) (*SubmitResult, error) {
	candidate.Priority = PriorityFor(candidate.Type, candidate.Source, candidate.Confidence, candidate.SimilarReportCount)

	actor := actorOf(candidate)
	ev := models.ReportEvent{
		Action: models.EventCreated,
		Actor:  actor,
		Note:   fmt.Sprintf("%s report from %s source", candidate.Type, candidate.Source),
	}
	if err := s.store.Create(ctx, candidate, ev); err != nil {
		return nil, err
	}

	s.hub.Publish(hub.Message{
		Name: event.ReportCreated,
		Fields: hub.Fields{
			"report_id":  candidate.ID.String(),
			"listing_id": candidate.ListingID.String(),
			"actor":      actor,
			"priority":   string(candidate.Priority),
		},
	})

	slog.Info("report created",
		"report_id", candidate.ID.String(),
		"listing_id", candidate.ListingID.String(),
		"type", string(candidate.Type),
		"priority", string(candidate.Priority),
	)
	return &SubmitResult{ReportID: candidate.ID, Correlated: false}, nil
}

func actorOf(r *models.Report) string {
	if r.SourceID != nil {
		return *r.SourceID
	}
	return string(r.Source)
}

package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leandro-lugaresi/hub"
	"golang.org/x/sync/semaphore"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/event"
	"github.com/otomarket/moderation-backend/internal/moderr"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/store"
)

// Action names a state-machine operation, as used by bulk transitions.
type Action string

const (
	ActionInvestigate Action = "investigate"
	ActionResolve     Action = "resolve"
	ActionDismiss     Action = "dismiss"
	ActionEscalate    Action = "escalate"
)

func ValidAction(a Action) bool {
	switch a {
	case ActionInvestigate, ActionResolve, ActionDismiss, ActionEscalate:
		return true
	}
	return false
}

// BulkResult is the per-id outcome of a bulk transition. Error carries the
// error kind for failed ids and is empty on success.
type BulkResult struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// WorkflowService owns the report lifecycle from pending to a terminal
// disposition. Every transition is a compare-and-swap on the report
// version; a losing writer gets a conflict, never a silently dropped write.
type WorkflowService struct {
	store       store.Store
	catalog     catalog.Service
	hub         *hub.Hub
	bulkWorkers int64
}

func NewWorkflowService(st store.Store, cat catalog.Service, h *hub.Hub, bulkWorkers int) *WorkflowService {
	if bulkWorkers <= 0 {
		bulkWorkers = 8
	}
	return &WorkflowService{store: st, catalog: cat, hub: h, bulkWorkers: int64(bulkWorkers)}
}

// Investigate moves a pending report to investigating and assigns it.
// Calling it again with the same moderator is a no-op; a different
// moderator gets a conflict rather than a silent reassignment.
func (s *WorkflowService) Investigate(ctx context.Context, id uuid.UUID, moderatorID string) (*models.Report, error) {
	if moderatorID == "" {
		return nil, moderr.New(moderr.KindValidation, "moderator id is required")
	}

	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if report.Status == models.StatusInvestigating {
		if report.AssignedTo != nil && *report.AssignedTo == moderatorID {
			return report, nil
		}
		return nil, moderr.Newf(moderr.KindConflict, "report %s is already being investigated by another moderator", id)
	}
	if report.Status.Terminal() {
		return nil, moderr.Newf(moderr.KindInvalidTransition, "report %s is already %s", id, report.Status)
	}

	expected := report.Version
	report.Status = models.StatusInvestigating
	report.AssignedTo = &moderatorID

	ev := models.ReportEvent{Action: models.EventInvestigating, Actor: moderatorID}
	if err := s.store.SaveTransition(ctx, report, expected, ev); err != nil {
		return nil, err
	}

	slog.Info("report under investigation", "report_id", id.String(), "actor", moderatorID)
	return report, nil
}

// Resolve applies the resolved disposition and forwards the caller-supplied
// remediation action to the listing catalog.
func (s *WorkflowService) Resolve(ctx context.Context, id uuid.UUID, moderatorID, notes string, remediation catalog.RemediationAction) (*models.Report, error) {
	if remediation == "" {
		remediation = catalog.RemediationNone
	}
	if !catalog.ValidRemediation(remediation) {
		return nil, moderr.Newf(moderr.KindValidation, "unknown remediation action %q", remediation)
	}

	report, err := s.terminal(ctx, id, moderatorID, notes, models.StatusResolved, models.EventResolved)
	if err != nil {
		return nil, err
	}

	// The transition is committed; a remediation failure is logged and left
	// to the resolved-event consumers, not rolled into the moderator's call.
	if err := s.catalog.ApplyRemediation(ctx, report.ListingID, remediation); err != nil {
		slog.Error("remediation failed after resolve",
			"report_id", id.String(),
			"listing_id", report.ListingID.String(),
			"action", string(remediation),
			"error", err,
		)
	}

	s.hub.Publish(hub.Message{
		Name: event.ReportResolved,
		Fields: hub.Fields{
			"report_id":   report.ID.String(),
			"listing_id":  report.ListingID.String(),
			"actor":       moderatorID,
			"remediation": string(remediation),
		},
	})
	return report, nil
}

// Dismiss closes a report without remediation.
func (s *WorkflowService) Dismiss(ctx context.Context, id uuid.UUID, moderatorID, notes string) (*models.Report, error) {
	return s.terminal(ctx, id, moderatorID, notes, models.StatusDismissed, models.EventDismissed)
}

// Escalate hands a report off to an external escalation workflow.
func (s *WorkflowService) Escalate(ctx context.Context, id uuid.UUID, moderatorID, notes string) (*models.Report, error) {
	report, err := s.terminal(ctx, id, moderatorID, notes, models.StatusEscalated, models.EventEscalated)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(hub.Message{
		Name: event.ReportEscalated,
		Fields: hub.Fields{
			"report_id":  report.ID.String(),
			"listing_id": report.ListingID.String(),
			"actor":      moderatorID,
		},
	})
	return report, nil
}

func (s *WorkflowService) terminal(ctx context.Context, id uuid.UUID, moderatorID, notes string, target models.Status, action string) (*models.Report, error) {
	if moderatorID == "" {
		return nil, moderr.New(moderr.KindValidation, "moderator id is required")
	}
	if notes == "" {
		return nil, moderr.New(moderr.KindValidation, "resolution notes are required")
	}

	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if report.Status.Terminal() {
		return nil, moderr.Newf(moderr.KindInvalidTransition, "report %s is already %s", id, report.Status)
	}
	// Critical reports must pass through investigating; there is no
	// fast path from pending for them.
	if report.Priority == models.PriorityCritical && report.Status == models.StatusPending {
		return nil, moderr.Newf(moderr.KindInvalidTransition, "critical report %s must be investigated before %s", id, target)
	}

	now := time.Now().UTC()
	expected := report.Version
	report.Status = target
	report.ResolvedAt = &now
	report.ResolvedBy = &moderatorID
	report.ResolutionNotes = &notes

	ev := models.ReportEvent{Action: action, Actor: moderatorID, Note: notes}
	if err := s.store.SaveTransition(ctx, report, expected, ev); err != nil {
		return nil, err
	}

	slog.Info("report closed",
		"report_id", id.String(),
		"action", action,
		"actor", moderatorID,
	)
	return report, nil
}

// BulkTransition applies one action to each id independently with bounded
// parallelism. The contract is best-effort, not atomic: each id succeeds
// or fails on its own and nothing is rolled back. Ids not processed before
// ctx is cancelled are reported as failed with the internal kind.
func (s *WorkflowService) BulkTransition(ctx context.Context, ids []uuid.UUID, action Action, moderatorID, notes string, remediation catalog.RemediationAction) ([]BulkResult, error) {
	if !ValidAction(action) {
		return nil, moderr.Newf(moderr.KindValidation, "unknown action %q", action)
	}
	if len(ids) == 0 {
		return nil, moderr.New(moderr.KindValidation, "at least one report id is required")
	}

	results := make([]BulkResult, len(ids))
	sem := semaphore.NewWeighted(s.bulkWorkers)
	var wg sync.WaitGroup

	for i, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BulkResult{ID: id, OK: false, Error: moderr.KindInternal.String()}
			continue
		}
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.applyOne(ctx, id, action, moderatorID, notes, remediation)
		}(i, id)
	}
	wg.Wait()
	return results, nil
}

func (s *WorkflowService) applyOne(ctx context.Context, id uuid.UUID, action Action, moderatorID, notes string, remediation catalog.RemediationAction) BulkResult {
	var err error
	switch action {
	case ActionInvestigate:
		_, err = s.Investigate(ctx, id, moderatorID)
	case ActionResolve:
		_, err = s.Resolve(ctx, id, moderatorID, notes, remediation)
	case ActionDismiss:
		_, err = s.Dismiss(ctx, id, moderatorID, notes)
	case ActionEscalate:
		_, err = s.Escalate(ctx, id, moderatorID, notes)
	}
	if err != nil {
		return BulkResult{ID: id, OK: false, Error: moderr.KindOf(err).String()}
	}
	return BulkResult{ID: id, OK: true}
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/catalog"
	"github.com/otomarket/moderation-backend/internal/dto"
	"github.com/otomarket/moderation-backend/internal/middleware"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/services"
	"github.com/otomarket/moderation-backend/internal/store"
)

type ModerationHandler struct {
	queue    *services.QueueService
	workflow *services.WorkflowService
}

func NewModerationHandler(queue *services.QueueService, workflow *services.WorkflowService) *ModerationHandler {
	return &ModerationHandler{queue: queue, workflow: workflow}
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	query := services.ReportQuery{
		Filter: store.Filter{
			Category:   models.ReportCategory(c.Query("category", "")),
			Priority:   models.Priority(c.Query("priority", "")),
			Status:     models.Status(c.Query("status", "")),
			Type:       models.ReportType(c.Query("type", "")),
			AssignedTo: c.Query("assigned_to", ""),
			Search:     c.Query("search", ""),
		},
		Sort: store.Sort{
			Field: store.SortField(c.Query("sort", string(store.SortByCreatedAt))),
			Desc:  c.Query("order", "desc") == "desc",
		},
		Limit:  limit,
		Offset: offset,
	}

	page, err := h.queue.ListReports(c.Context(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

func (h *ModerationHandler) GetReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, events, err := h.queue.GetReport(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"report": report,
		"events": events,
	})
}

func (h *ModerationHandler) Investigate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	report, err := h.workflow.Investigate(c.Context(), id, actorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) Resolve(c *fiber.Ctx) error {
	return h.transition(c, services.ActionResolve)
}

func (h *ModerationHandler) Dismiss(c *fiber.Ctx) error {
	return h.transition(c, services.ActionDismiss)
}

func (h *ModerationHandler) Escalate(c *fiber.Ctx) error {
	return h.transition(c, services.ActionEscalate)
}

func (h *ModerationHandler) transition(c *fiber.Ctx, action services.Action) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	actor := actorID(c)
	var report *models.Report
	switch action {
	case services.ActionResolve:
		report, err = h.workflow.Resolve(c.Context(), id, actor, req.Notes, catalog.RemediationAction(req.Remediation))
	case services.ActionDismiss:
		report, err = h.workflow.Dismiss(c.Context(), id, actor, req.Notes)
	case services.ActionEscalate:
		report, err = h.workflow.Escalate(c.Context(), id, actor, req.Notes)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) BulkTransition(c *fiber.Ctx) error {
	var req dto.BulkTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	results, err := h.workflow.BulkTransition(
		c.Context(),
		req.IDs,
		services.Action(req.Action),
		actorID(c),
		req.Notes,
		catalog.RemediationAction(req.Remediation),
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

// actorID identifies the moderator for audit purposes. Admin-token calls
// have no JWT subject and are attributed to the shared admin identity.
func actorID(c *fiber.Ctx) string {
	if sub := middleware.SubjectID(c); sub != "" {
		return sub
	}
	return "admin"
}

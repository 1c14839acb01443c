package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otomarket/moderation-backend/internal/dto"
	"github.com/otomarket/moderation-backend/internal/middleware"
	"github.com/otomarket/moderation-backend/internal/models"
	"github.com/otomarket/moderation-backend/internal/services"
)

// SignalHandler ingests the three signal shapes into the report pipeline.
type SignalHandler struct {
	reports *services.ReportService
}

func NewSignalHandler(reports *services.ReportService) *SignalHandler {
	return &SignalHandler{reports: reports}
}

// SubmitReport handles reports from authenticated users and dealers.
func (h *SignalHandler) SubmitReport(c *fiber.Ctx) error {
	reporterID := middleware.SubjectID(c)
	if reporterID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.reports.SubmitSignal(c.Context(), services.UserReport{
		ListingID:   req.ListingID,
		ReporterID:  reporterID,
		Dealer:      middleware.SubjectRole(c) == "dealer",
		Type:        models.ReportType(req.Type),
		Description: req.Description,
		Evidence:    req.Evidence,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// SubmitDetectorSignal handles token-authenticated automated detectors.
func (h *SignalHandler) SubmitDetectorSignal(c *fiber.Ctx) error {
	var req dto.SubmitDetectorSignalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.reports.SubmitSignal(c.Context(), services.DetectorSignal{
		ListingID:  req.ListingID,
		Detector:   req.Detector,
		Type:       models.ReportType(req.Type),
		Confidence: req.Confidence,
		Details:    req.Details,
		Evidence:   req.Evidence,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// SubmitFlag handles admin-initiated flags from the moderation panel.
func (h *SignalHandler) SubmitFlag(c *fiber.Ctx) error {
	adminID := middleware.SubjectID(c)
	if adminID == "" {
		adminID = "admin"
	}

	var req dto.SubmitFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.reports.SubmitSignal(c.Context(), services.AdminFlag{
		ListingID:   req.ListingID,
		AdminID:     adminID,
		Type:        models.ReportType(req.Type),
		Description: req.Description,
		Evidence:    req.Evidence,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/otomarket/moderation-backend/internal/dto"
	"github.com/otomarket/moderation-backend/internal/services"
)

type QualityHandler struct {
	quality *services.QualityService
}

func NewQualityHandler(quality *services.QualityService) *QualityHandler {
	return &QualityHandler{quality: quality}
}

// RunAssessment scores a listing and returns the per-category checks.
// Threshold breaches feed the report pipeline as a side effect.
func (h *QualityHandler) RunAssessment(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid listing ID",
		})
	}

	checks, err := h.quality.RunAssessment(c.Context(), listingID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"checks": checks})
}

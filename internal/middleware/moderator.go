package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/otomarket/moderation-backend/internal/config"
	"github.com/otomarket/moderation-backend/internal/dto"
)

// ModeratorRequired gates moderation routes. Access is granted by:
// 1. the config-based admin token header
// 2. a moderator or admin role claim
// 3. config-based moderator user id lists
func ModeratorRequired(cfg *config.Config) fiber.Handler {
	moderatorIDs := parseCSV(cfg.ModeratorIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			header := c.Get("X-Admin-Token")
			if header != "" && subtle.ConstantTimeCompare([]byte(header), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		sub := SubjectID(c)
		if sub == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		role := SubjectRole(c)
		if role == "moderator" || role == "admin" || contains(moderatorIDs, sub) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Moderator access required",
		})
	}
}

// DetectorAuth authenticates automated detectors via a shared token.
func DetectorAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.DetectorToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Detector ingestion is disabled",
			})
		}
		header := c.Get("X-Detector-Token")
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(cfg.DetectorToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

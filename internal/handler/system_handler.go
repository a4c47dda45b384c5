package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

type SystemHandler struct {
	db         *gorm.DB
	mapsAPIKey string
}

func NewSystemHandler(db *gorm.DB, mapsAPIKey string) *SystemHandler {
	return &SystemHandler{db: db, mapsAPIKey: mapsAPIKey}
}

// GetConfig exposes the browser-safe settings the client needs.
func (h *SystemHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(fiber.Map{"maps_api_key": h.mapsAPIKey}, ""))
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/middleware"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	userService  *service.UserService
	logger       *zap.Logger
}

func NewEventHandler(eventService *service.EventService, userService *service.UserService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		userService:  userService,
		logger:       logger,
	}
}

func listParams(c *fiber.Ctx, limit int) models.ListEventsParams {
	return models.ListEventsParams{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Page:     utils.ParseInt(c.Query("page"), 1),
		Limit:    limit,
	}
}

func pageResponse(c *fiber.Ctx, page models.EventPage) error {
	return c.JSON(models.NewPageResponse(models.UniqueEvents(page.Data), page.TotalPages))
}

// ListEvents serves the full listing used by the home page and admin views.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	page := h.eventService.ListEvents(c.UserContext(), listParams(c, utils.AdminPageSize))
	return pageResponse(c, page)
}

// SearchEvents is the paginated public listing; limit defaults to 6.
func (h *EventHandler) SearchEvents(c *fiber.Ctx) error {
	page := h.eventService.ListEvents(c.UserContext(), listParams(c, utils.ParseInt(c.Query("limit"), 0)))
	return pageResponse(c, page)
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.eventService.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(event, ""))
}

func (h *EventHandler) GetRelatedEvents(c *fiber.Ctx) error {
	page, err := h.eventService.ListRelatedToEvent(c.UserContext(), c.Params("id"), utils.ParseInt(c.Query("page"), 1))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return pageResponse(c, page)
}

func (h *EventHandler) GetMyEvents(c *fiber.Ctx) error {
	user, err := h.userService.RequireUser(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	page := h.eventService.ListEventsByOrganizer(c.UserContext(), user.ID, utils.ParseInt(c.Query("page"), 1), utils.ParseInt(c.Query("limit"), 0))
	return pageResponse(c, page)
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), middleware.Actor(c), middleware.Profile(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(event, "Event created successfully"))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	event, err := h.eventService.UpdateEvent(c.UserContext(), middleware.Actor(c), c.Params("id"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event updated successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.eventService.DeleteEvent(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event successfully deleted"))
}

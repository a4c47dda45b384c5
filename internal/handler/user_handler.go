package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/middleware"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(users, ""))
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.UserContext(), middleware.Actor(c), c.Params("id"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(user, "User updated successfully"))
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "User deleted successfully"))
}

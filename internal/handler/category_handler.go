package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/middleware"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(categories, ""))
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := h.categoryService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(category, ""))
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	category, err := h.categoryService.Create(c.UserContext(), middleware.Actor(c), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(category, "Category created successfully"))
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	category, err := h.categoryService.Update(c.UserContext(), middleware.Actor(c), c.Params("id"), req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(category, "Category updated successfully"))
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categoryService.Delete(c.UserContext(), middleware.Actor(c), c.Params("id")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Category deleted successfully"))
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/pkg/storage"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

// MaxUploadSize is the largest event image accepted.
const MaxUploadSize = 4 << 20

type UploadHandler struct {
	images    storage.ImageStore
	validator *utils.Validator
	logger    *zap.Logger
}

func NewUploadHandler(images storage.ImageStore, validator *utils.Validator, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		images:    images,
		validator: validator,
		logger:    logger,
	}
}

func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	if h.images == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse("Image storage is not configured"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "Missing file")
	}
	if file.Size > MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse("File exceeds 4MB"))
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if err := h.validator.Var(contentType, "supported_image"); err != nil {
		return badRequest(c, "Unsupported image type")
	}

	src, err := file.Open()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer src.Close()

	url, err := h.images.Upload(c.UserContext(), file.Filename, contentType, file.Size, src)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(fiber.Map{"url": url}, ""))
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
	"github.com/Chawketodeh/eventy-events-platform/pkg/identity"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
)

// IdentityWebhookParser verifies a Clerk delivery.
type IdentityWebhookParser interface {
	Parse(payload []byte, headers http.Header) (*identity.Event, error)
}

type WebhookHandler struct {
	parser      IdentityWebhookParser
	userService *service.UserService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewWebhookHandler(parser IdentityWebhookParser, userService *service.UserService, m *metrics.Metrics, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		parser:      parser,
		userService: userService,
		metrics:     m,
		logger:      logger,
	}
}

func requestHeaders(c *fiber.Ctx) http.Header {
	h := http.Header{}
	for key, values := range c.GetReqHeaders() {
		for _, v := range values {
			h.Add(key, v)
		}
	}
	return h
}

func (h *WebhookHandler) HandleClerkWebhook(c *fiber.Ctx) error {
	if h.parser == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse("Identity webhook is not configured"))
	}

	evt, err := h.parser.Parse(append([]byte(nil), c.Body()...), requestHeaders(c))
	if err != nil {
		h.metrics.WebhookEvents.WithLabelValues("clerk", "rejected").Inc()
		if errors.Is(err, identity.ErrInvalidSignature) {
			h.logger.Warn("clerk webhook signature rejected", zap.Error(err))
			return badRequest(c, "Invalid webhook signature")
		}
		return badRequest(c, "Malformed webhook payload")
	}

	if err := h.userService.HandleIdentityEvent(c.UserContext(), evt); err != nil {
		h.metrics.WebhookEvents.WithLabelValues("clerk", "failed").Inc()
		return writeError(c, h.logger, err)
	}

	h.metrics.WebhookEvents.WithLabelValues("clerk", "processed").Inc()
	return c.JSON(models.SuccessResponse(nil, ""))
}

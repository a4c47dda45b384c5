package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/controller"
	"github.com/Chawketodeh/eventy-events-platform/internal/middleware"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
	"github.com/Chawketodeh/eventy-events-platform/pkg/utils"
)

type PaymentHandler struct {
	paymentController *controller.PaymentController
	userService       *service.UserService
	logger            *zap.Logger
}

func NewPaymentHandler(paymentController *controller.PaymentController, userService *service.UserService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		userService:       userService,
		logger:            logger,
	}
}

// CreateCheckoutSession records the buyer locally first so a signed-in user
// can buy before the user.created webhook arrives.
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	if _, err := h.userService.EnsureUser(c.UserContext(), middleware.Profile(c)); err != nil {
		return writeError(c, h.logger, err)
	}
	session, err := h.paymentController.CreateCheckoutSession(c.UserContext(), middleware.Actor(c), c.Params("eventId"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(session, ""))
}

// HandleStripeWebhook needs the unparsed body for signature verification.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	if err := h.paymentController.HandleStripeWebhook(c.UserContext(), payload, c.Get("Stripe-Signature")); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, ""))
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	page, err := h.paymentController.GetPurchaseHistory(c.UserContext(), middleware.Actor(c), utils.ParseInt(c.Query("page"), 1))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.NewPageResponse(page.Data, page.TotalPages))
}

func (h *PaymentHandler) GetEventOrders(c *fiber.Ctx) error {
	items, err := h.paymentController.ListOrdersByEvent(c.UserContext(), middleware.Actor(c), c.Params("id"), c.Query("search"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(items, ""))
}

func (h *PaymentHandler) GetTicket(c *fiber.Ctx) error {
	png, err := h.paymentController.Ticket(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	c.Type("png")
	return c.Send(png)
}

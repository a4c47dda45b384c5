package controller

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
	"github.com/Chawketodeh/eventy-events-platform/internal/policy"
	"github.com/Chawketodeh/eventy-events-platform/internal/service"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
	"github.com/Chawketodeh/eventy-events-platform/pkg/payment"
)

// WebhookParser verifies a Stripe delivery and extracts the completed
// checkout, or nil for other event types.
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*models.CompletedCheckout, error)
}

type PaymentController struct {
	orderService *service.OrderService
	parser       WebhookParser
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewPaymentController(orderService *service.OrderService, parser WebhookParser, m *metrics.Metrics, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		orderService: orderService,
		parser:       parser,
		metrics:      m,
		logger:       logger.Named("payment"),
	}
}

func (c *PaymentController) CreateCheckoutSession(ctx context.Context, actor policy.Actor, eventID string) (*models.CheckoutSession, error) {
	return c.orderService.Checkout(ctx, actor, eventID)
}

// HandleStripeWebhook verifies and applies one Stripe delivery. Nothing is
// written when verification fails.
func (c *PaymentController) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	completed, err := c.parser.ParseWebhook(payload, signature)
	if err != nil {
		c.observe("rejected")
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.logger.Warn("stripe webhook signature rejected", zap.Error(err))
			return apperror.Signature("invalid stripe signature")
		}
		return apperror.Validation("malformed stripe payload")
	}
	if completed == nil {
		c.observe("ignored")
		return nil
	}

	_, created, err := c.orderService.ReconcileCheckout(ctx, completed)
	if err != nil {
		c.observe("failed")
		return err
	}
	if created {
		c.observe("processed")
	} else {
		c.observe("duplicate")
	}
	return nil
}

func (c *PaymentController) observe(outcome string) {
	c.metrics.WebhookEvents.WithLabelValues("stripe", outcome).Inc()
}

func (c *PaymentController) ListOrdersByEvent(ctx context.Context, actor policy.Actor, eventID, search string) ([]models.OrderItem, error) {
	return c.orderService.ListOrdersByEvent(ctx, actor, eventID, search)
}

func (c *PaymentController) GetPurchaseHistory(ctx context.Context, actor policy.Actor, page int) (models.OrderPage, error) {
	return c.orderService.ListOrdersByBuyer(ctx, actor, page)
}

func (c *PaymentController) Ticket(ctx context.Context, actor policy.Actor, orderID string) ([]byte, error) {
	return c.orderService.Ticket(ctx, actor, orderID)
}

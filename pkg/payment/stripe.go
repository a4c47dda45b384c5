package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

const (
	MetadataEventID = "eventId"
	MetadataBuyerID = "buyerId"

	EventCheckoutCompleted = "checkout.session.completed"
)

var ErrInvalidSignature = errors.New("invalid stripe signature")

// CheckoutRequest describes a single-ticket purchase.
type CheckoutRequest struct {
	EventID    string
	EventTitle string
	BuyerID    string
	Price      float64
	SuccessURL string
	CancelURL  string
}

type StripeService struct {
	api           *client.API
	webhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// UnitAmount converts a decimal price to integer minor units.
func UnitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}

func checkoutParams(ctx context.Context, req CheckoutRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(UnitAmount(req.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.EventTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	params.AddMetadata(MetadataEventID, req.EventID)
	params.AddMetadata(MetadataBuyerID, req.BuyerID)
	return params
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*models.CheckoutSession, error) {
	sess, err := s.api.CheckoutSessions.New(checkoutParams(ctx, req))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &models.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and returns the completed
// checkout it carries. A verified event of another type yields nil, nil.
func (s *StripeService) ParseWebhook(payload []byte, signature string) (*models.CompletedCheckout, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if event.Type != EventCheckoutCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := jsoniter.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	return &models.CompletedCheckout{
		SessionID:   sess.ID,
		AmountTotal: sess.AmountTotal,
		EventID:     sess.Metadata[MetadataEventID],
		BuyerID:     sess.Metadata[MetadataBuyerID],
	}, nil
}

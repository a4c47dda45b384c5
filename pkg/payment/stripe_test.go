package payment

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedHeader(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func TestUnitAmount(t *testing.T) {
	assert.EqualValues(t, 1999, UnitAmount(19.99))
	assert.EqualValues(t, 1000, UnitAmount(10))
	assert.EqualValues(t, 30, UnitAmount(0.295))
	assert.EqualValues(t, 0, UnitAmount(0))
}

func TestCheckoutParams(t *testing.T) {
	params := checkoutParams(context.Background(), CheckoutRequest{
		EventID:    "e1",
		EventTitle: "Go Conf",
		BuyerID:    "u1",
		Price:      12.5,
		SuccessURL: "https://eventy.app/profile",
		CancelURL:  "https://eventy.app/",
	})

	require.Len(t, params.LineItems, 1)
	assert.EqualValues(t, 1250, *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "usd", *params.LineItems[0].PriceData.Currency)
	assert.Equal(t, "Go Conf", *params.LineItems[0].PriceData.ProductData.Name)
	assert.EqualValues(t, 1, *params.LineItems[0].Quantity)
	assert.Equal(t, "e1", params.Metadata[MetadataEventID])
	assert.Equal(t, "u1", params.Metadata[MetadataBuyerID])
	assert.Equal(t, "https://eventy.app/profile", *params.SuccessURL)
	assert.Equal(t, "payment", *params.Mode)
}

func TestParseWebhook(t *testing.T) {
	s := NewStripeService("sk_test", testWebhookSecret)

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed",
		"data":{"object":{"id":"cs_1","object":"checkout.session","amount_total":2500,
		"metadata":{"eventId":"e1","buyerId":"u1"}}}}`)

	t.Run("completed checkout", func(t *testing.T) {
		got, err := s.ParseWebhook(payload, signedHeader(payload, testWebhookSecret))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "cs_1", got.SessionID)
		assert.EqualValues(t, 2500, got.AmountTotal)
		assert.Equal(t, "e1", got.EventID)
		assert.Equal(t, "u1", got.BuyerID)
	})

	t.Run("bad signature", func(t *testing.T) {
		_, err := s.ParseWebhook(payload, signedHeader(payload, "whsec_other"))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := s.ParseWebhook(payload, "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other event type", func(t *testing.T) {
		other := []byte(`{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`)
		got, err := s.ParseWebhook(other, signedHeader(other, testWebhookSecret))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

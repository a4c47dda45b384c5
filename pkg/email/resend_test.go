package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderConfirmation(t *testing.T) {
	html, err := renderOrderConfirmation(OrderConfirmation{
		To:         "ada@example.com",
		FullName:   "Ada <Lovelace>",
		OrderID:    "ord_1",
		EventTitle: "Go Conf",
		Location:   "Berlin",
		StartsAt:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		Amount:     25,
		TicketURL:  "https://eventy.app/orders/ord_1",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "going to Go Conf!")
	assert.Contains(t, html, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, html, "$25.00")
	assert.Contains(t, html, "Mon, 01 Jun 2026 09:00 UTC")
	assert.Contains(t, html, `href="https://eventy.app/orders/ord_1"`)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Free", formatAmount(0))
	assert.Equal(t, "$9.99", formatAmount(9.99))
}

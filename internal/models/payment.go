package models

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CompletedCheckout is the provider-agnostic view of a paid checkout session.
type CompletedCheckout struct {
	SessionID   string
	AmountTotal int64
	EventID     string
	BuyerID     string
}

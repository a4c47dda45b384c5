package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// TicketService renders the QR code printed on a ticket. The code encodes
// the order page URL so that door staff can look the order up.
type TicketService struct {
	baseURL string
}

// NewTicketService takes the public site URL, e.g. "https://eventy.app".
func NewTicketService(publicURL string) *TicketService {
	return &TicketService{
		baseURL: strings.TrimRight(publicURL, "/") + "/orders/",
	}
}

func (s *TicketService) TicketURL(orderID string) string {
	return s.baseURL + orderID
}

// PNG returns the ticket QR code for orderID. size <= 0 uses DefaultSize.
func (s *TicketService) PNG(orderID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(s.TicketURL(orderID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}

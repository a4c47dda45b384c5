package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// OrderConfirmation is the data rendered into the order confirmation email.
type OrderConfirmation struct {
	To         string
	FullName   string
	OrderID    string
	EventTitle string
	Location   string
	StartsAt   time.Time
	Amount     float64
	TicketURL  string
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger.Named("email"),
	}
}

func (s *EmailService) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	html, err := renderOrderConfirmation(msg)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{msg.To},
		Subject: "Your ticket for " + msg.EventTitle,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send order confirmation to %s: %w", msg.To, err)
	}

	s.logger.Info("order confirmation sent",
		zap.String("order_id", msg.OrderID),
		zap.String("email_id", resp.Id),
	)
	return nil
}

func renderOrderConfirmation(msg OrderConfirmation) (string, error) {
	data := map[string]interface{}{
		"FullName":   msg.FullName,
		"OrderID":    msg.OrderID,
		"EventTitle": msg.EventTitle,
		"Location":   msg.Location,
		"StartsAt":   msg.StartsAt.Format("Mon, 02 Jan 2006 15:04 MST"),
		"Amount":     formatAmount(msg.Amount),
		"TicketURL":  msg.TicketURL,
		"Year":       time.Now().Year(),
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "order-confirmation.html", data); err != nil {
		return "", fmt.Errorf("failed to render order confirmation: %w", err)
	}
	return body.String(), nil
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", amount)
}

// NoopMailer is used when no Resend API key is configured.
type NoopMailer struct{}

func (NoopMailer) SendOrderConfirmation(context.Context, OrderConfirmation) error { return nil }

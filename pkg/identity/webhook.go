package identity

import (
	"errors"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Event is a verified Clerk webhook delivery.
type Event struct {
	Type string
	User models.IdentityUser
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type userData struct {
	ID                    string         `json:"id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	Username              *string        `json:"username"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	ImageURL              string         `json:"image_url"`
}

type envelope struct {
	Type string   `json:"type"`
	Data userData `json:"data"`
}

func (d userData) primaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type WebhookVerifier struct {
	wh *svix.Webhook
}

func NewWebhookVerifier(signingSecret string) (*WebhookVerifier, error) {
	wh, err := svix.NewWebhook(signingSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create svix verifier: %w", err)
	}
	return &WebhookVerifier{wh: wh}, nil
}

// Parse verifies the svix headers against payload and decodes the event.
func (v *WebhookVerifier) Parse(payload []byte, headers http.Header) (*Event, error) {
	if err := v.wh.Verify(payload, headers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var env envelope
	if err := jsoniter.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Type == "" || env.Data.ID == "" {
		return nil, ErrMalformedPayload
	}

	return &Event{
		Type: env.Type,
		User: models.IdentityUser{
			ClerkID:   env.Data.ID,
			Email:     env.Data.primaryEmail(),
			Username:  deref(env.Data.Username),
			FirstName: deref(env.Data.FirstName),
			LastName:  deref(env.Data.LastName),
			Photo:     env.Data.ImageURL,
		},
	}, nil
}

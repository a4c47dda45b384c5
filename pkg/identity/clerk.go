// Package identity talks to Clerk: it verifies webhook deliveries and writes
// back the local user id to the Clerk user's public metadata.
package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	jsoniter "github.com/json-iterator/go"
)

// MetadataWriter records the local user id on the identity-provider account.
type MetadataWriter interface {
	SetUserID(ctx context.Context, clerkID, userID string) error
}

type ClerkClient struct {
	users *user.Client
}

func NewClerkClient(secretKey string) *ClerkClient {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)
	return &ClerkClient{users: user.NewClient(cfg)}
}

func (c *ClerkClient) SetUserID(ctx context.Context, clerkID, userID string) error {
	raw, err := jsoniter.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return err
	}
	metadata := json.RawMessage(raw)
	if _, err := c.users.UpdateMetadata(ctx, clerkID, &user.UpdateMetadataParams{
		PublicMetadata: &metadata,
	}); err != nil {
		return fmt.Errorf("failed to update clerk metadata for %s: %w", clerkID, err)
	}
	return nil
}

// NoopMetadataWriter is used when no Clerk secret key is configured.
type NoopMetadataWriter struct{}

func (NoopMetadataWriter) SetUserID(context.Context, string, string) error { return nil }

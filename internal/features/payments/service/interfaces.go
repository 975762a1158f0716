package service

import (
	"context"

	"novelhub-backend/internal/features/payments/models"
)

type PaymentService interface {
	// ProcessWebhook verifies, parses and applies one inbound provider
	// event. Redelivered and irrelevant-type events acknowledge success
	// without touching any balance.
	ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*models.WebhookAck, error)

	Spend(ctx context.Context, profileID string, coins int64, reason string) (*models.SpendResponse, error)
	ListLedger(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error)
}

// Cache is the subset of the common cache service used by this feature.
type Cache interface {
	Delete(ctx context.Context, key string) error
}

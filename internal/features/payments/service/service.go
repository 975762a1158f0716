package service

import (
	"context"
	"encoding/json"

	apperrors "novelhub-backend/internal/common/errors"
	"novelhub-backend/internal/common/logger"
	"novelhub-backend/internal/common/validation"
	"novelhub-backend/internal/features/payments/models"
	"novelhub-backend/internal/features/payments/repository"
	"novelhub-backend/internal/features/payments/signature"
	profileservice "novelhub-backend/internal/features/profile/service"
)

const (
	creditReason = "coinbase charge"

	defaultLedgerLimit = 20
	maxLedgerLimit     = 100
)

type paymentService struct {
	repo          repository.LedgerRepository
	cache         Cache
	webhookSecret string
}

func NewPaymentService(repo repository.LedgerRepository, cacheService Cache, webhookSecret string) PaymentService {
	return &paymentService{
		repo:          repo,
		cache:         cacheService,
		webhookSecret: webhookSecret,
	}
}

func (s *paymentService) ProcessWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*models.WebhookAck, error) {
	// Verification runs over the raw bytes, before any decoding.
	if !signature.Verify(rawBody, signatureHeader, s.webhookSecret) {
		return nil, apperrors.NewInvalidSignatureError()
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, apperrors.NewMalformedPayloadError("body is not valid JSON")
	}

	if err := validation.ValidateEventID(event.ID); err != nil {
		return nil, apperrors.NewMalformedPayloadError(err.Error())
	}
	if event.Type == "" {
		return nil, apperrors.NewMalformedPayloadError("event type is missing")
	}

	if event.Type != models.EventTypeChargeConfirmed {
		logger.Debug().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("Ignoring webhook event type")
		return &models.WebhookAck{Success: true}, nil
	}

	purchase, err := s.extractPurchase(&event)
	if err != nil {
		return nil, err
	}

	err = s.repo.CreditOnce(ctx, purchase, creditReason)
	switch err {
	case nil:
	case repository.ErrDuplicateEvent:
		// Providers deliver at-least-once; a repeat acknowledges exactly
		// like the original so their retry loop stops.
		logger.Info().
			Str("event_id", purchase.EventID).
			Str("profile_id", purchase.UserID).
			Msg("Duplicate webhook event acknowledged")
		return &models.WebhookAck{Success: true}, nil
	case repository.ErrProfileNotFound:
		return nil, apperrors.NewProfileNotFoundError(purchase.UserID)
	default:
		return nil, apperrors.NewDatabaseError("credit coins", err)
	}

	if err := s.cache.Delete(ctx, profileservice.ProfileCacheKey(purchase.UserID)); err != nil {
		logger.Warn().Err(err).Str("profile_id", purchase.UserID).Msg("Failed to invalidate profile cache")
	}

	logger.Info().
		Str("event_id", purchase.EventID).
		Str("profile_id", purchase.UserID).
		Int64("coins", purchase.Coins).
		Msg("Coins credited")

	return &models.WebhookAck{Success: true}, nil
}

func (s *paymentService) extractPurchase(event *models.WebhookEvent) (*models.PurchaseEvent, error) {
	metadata := event.Data.Metadata

	if metadata.UserID == "" {
		return nil, apperrors.NewMalformedPayloadError("metadata.userId is missing")
	}
	if err := validation.ValidateCoinAmount(metadata.Coins); err != nil {
		return nil, apperrors.NewMalformedPayloadError("metadata.coins: " + err.Error())
	}

	return &models.PurchaseEvent{
		EventID: event.ID,
		UserID:  metadata.UserID,
		Coins:   metadata.Coins,
	}, nil
}

func (s *paymentService) Spend(ctx context.Context, profileID string, coins int64, reason string) (*models.SpendResponse, error) {
	if err := validation.ValidateCoinAmount(coins); err != nil {
		return nil, apperrors.NewValidationError("coins", err.Error())
	}
	if err := validation.ValidateReason(reason); err != nil {
		return nil, apperrors.NewValidationError("reason", err.Error())
	}

	balance, err := s.repo.Spend(ctx, profileID, coins, reason)
	switch err {
	case nil:
	case repository.ErrProfileNotFound:
		return nil, apperrors.NewProfileNotFoundError(profileID)
	case repository.ErrInsufficientCoins:
		return nil, apperrors.NewInsufficientCoinsError(profileID, coins)
	default:
		return nil, apperrors.NewDatabaseError("spend coins", err)
	}

	if err := s.cache.Delete(ctx, profileservice.ProfileCacheKey(profileID)); err != nil {
		logger.Warn().Err(err).Str("profile_id", profileID).Msg("Failed to invalidate profile cache")
	}

	return &models.SpendResponse{
		ProfileID: profileID,
		Spent:     coins,
		Coins:     balance,
	}, nil
}

func (s *paymentService) ListLedger(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	if limit > maxLedgerLimit {
		limit = maxLedgerLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repo.ListEntries(ctx, profileID, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list ledger entries", err)
	}

	if entries == nil {
		entries = []*models.LedgerEntry{}
	}

	return entries, nil
}

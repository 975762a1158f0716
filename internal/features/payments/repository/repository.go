package repository

import (
	"context"
	"errors"

	"novelhub-backend/internal/features/payments/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")

	// ErrDuplicateEvent marks a provider redelivery; the original credit
	// already went through.
	ErrDuplicateEvent = errors.New("event already processed")

	// ErrInsufficientCoins marks a debit that would drive the balance
	// negative.
	ErrInsufficientCoins = errors.New("insufficient coins")
)

type LedgerRepository interface {
	// CreditOnce applies a confirmed purchase exactly once. The processed-
	// event insert and the balance increment happen in one transaction;
	// a repeated event ID returns ErrDuplicateEvent with no state change.
	CreditOnce(ctx context.Context, event *models.PurchaseEvent, reason string) error

	// Spend atomically debits coins, failing with ErrInsufficientCoins
	// rather than ever taking the balance below zero. Returns the balance
	// after the debit.
	Spend(ctx context.Context, profileID string, coins int64, reason string) (int64, error)

	// ListEntries returns a profile's ledger, newest first.
	ListEntries(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error)
}

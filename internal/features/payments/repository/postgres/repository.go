package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"novelhub-backend/internal/features/payments/models"
	"novelhub-backend/internal/features/payments/repository"

	_ "github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.LedgerRepository {
	return &postgresRepository{db: db}
}

// CreditOnce claims the event ID and applies the increment inside one
// transaction. The conditional insert on processed_events is the dedup
// point: of two concurrent redeliveries only one insert takes, and the
// other rolls back having touched nothing.
func (r *postgresRepository) CreditOnce(ctx context.Context, event *models.PurchaseEvent, reason string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO processed_events (event_id)
		VALUES ($1)
		ON CONFLICT (event_id) DO NOTHING
	`, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to claim event: %w", err)
	}

	claimed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if claimed == 0 {
		return repository.ErrDuplicateEvent
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE profiles
		SET coins = coins + $2, updated_at = NOW()
		WHERE id = $1
	`, event.UserID, event.Coins)
	if err != nil {
		return fmt.Errorf("failed to credit coins: %w", err)
	}

	credited, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if credited == 0 {
		return repository.ErrProfileNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (profile_id, delta, reason, event_id)
		VALUES ($1, $2, $3, $4)
	`, event.UserID, event.Coins, reason, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Spend debits coins with the balance guard in the UPDATE itself, so a burst
// of concurrent debits can never overdraw the profile.
func (r *postgresRepository) Spend(ctx context.Context, profileID string, coins int64, reason string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `
		UPDATE profiles
		SET coins = coins - $2, updated_at = NOW()
		WHERE id = $1 AND coins >= $2
		RETURNING coins
	`, profileID, coins).Scan(&balance)

	if err == sql.ErrNoRows {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)", profileID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check profile existence: %w", err)
		}
		if !exists {
			return 0, repository.ErrProfileNotFound
		}
		return 0, repository.ErrInsufficientCoins
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit coins: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (profile_id, delta, reason)
		VALUES ($1, $2, $3)
	`, profileID, -coins, reason)
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance, nil
}

func (r *postgresRepository) ListEntries(ctx context.Context, profileID string, limit, offset int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, profile_id, delta, reason, event_id, created_at
		FROM ledger_entries
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var eventID sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.ProfileID, &entry.Delta, &entry.Reason,
			&eventID, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if eventID.Valid {
			entry.EventID = &eventID.String
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

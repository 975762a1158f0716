package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"novelhub-backend/internal/features/profile/models"
	"novelhub-backend/internal/features/profile/repository"

	_ "github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ProfileRepository {
	return &postgresRepository{db: db}
}

// Create inserts a profile, keeping an existing row untouched so signup
// retries stay idempotent.
func (r *postgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, coins, current_streak, last_visit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Coins, profile.CurrentStreak, profile.LastVisit)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, coins, current_streak, last_visit, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile models.Profile
	var lastVisit sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Coins, &profile.CurrentStreak,
		&lastVisit, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if lastVisit.Valid {
		profile.LastVisit = &lastVisit.Time
	}

	return &profile, nil
}

// UpdateStreak performs the guarded streak write. The IS NOT DISTINCT FROM
// predicate makes the guard hold for the never-visited (NULL) case too, so
// two concurrent first visits cannot both take the row.
func (r *postgresRepository) UpdateStreak(ctx context.Context, id string, streak int, visitedAt time.Time, prevVisit *time.Time) error {
	query := `
		UPDATE profiles
		SET current_streak = $2, last_visit = $3, updated_at = NOW()
		WHERE id = $1 AND last_visit IS NOT DISTINCT FROM $4
	`

	result, err := r.db.ExecContext(ctx, query, id, streak, visitedAt, prevVisit)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Distinguish a lost guard from a missing row.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)", id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check profile existence: %w", err)
		}
		if !exists {
			return repository.ErrProfileNotFound
		}
		return repository.ErrStaleVisit
	}

	return nil
}

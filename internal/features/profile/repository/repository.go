package repository

import (
	"context"
	"errors"
	"time"

	"novelhub-backend/internal/features/profile/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")

	// ErrStaleVisit is returned by UpdateStreak when the guarded write lost
	// to a concurrent visit for the same profile.
	ErrStaleVisit = errors.New("last visit changed concurrently")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// UpdateStreak sets current_streak and last_visit only while last_visit
	// still equals prevVisit (nil meaning never visited). Returns
	// ErrStaleVisit when the guard fails for an existing profile.
	UpdateStreak(ctx context.Context, id string, streak int, visitedAt time.Time, prevVisit *time.Time) error
}

package service

import (
	"context"
	"time"

	"novelhub-backend/internal/features/profile/models"
)

type ProfileService interface {
	CreateProfile(ctx context.Context, id string) (*models.ProfileResponse, error)
	GetProfile(ctx context.Context, id string) (*models.ProfileResponse, error)
	RecordVisit(ctx context.Context, id string) (*models.ProfileResponse, error)
	GetAdFreeStatus(ctx context.Context, id string) (*models.AdFreeStatus, error)
}

// Cache is the subset of the common cache service used by this feature.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

package service

import (
	"context"
	"time"

	apperrors "novelhub-backend/internal/common/errors"
	"novelhub-backend/internal/common/logger"
	"novelhub-backend/internal/common/validation"
	"novelhub-backend/internal/features/profile/models"
	"novelhub-backend/internal/features/profile/repository"
)

const profileCacheTTL = 30 * time.Second

// ProfileCacheKey is shared with the payments feature, which invalidates the
// cached profile after every balance mutation.
func ProfileCacheKey(id string) string {
	return "profile:" + id
}

type profileService struct {
	repo            repository.ProfileRepository
	cache           Cache
	adFreeThreshold int64
	now             func() time.Time
}

func NewProfileService(repo repository.ProfileRepository, cacheService Cache, adFreeThreshold int64) ProfileService {
	return &profileService{
		repo:            repo,
		cache:           cacheService,
		adFreeThreshold: adFreeThreshold,
		now:             time.Now,
	}
}

func (s *profileService) CreateProfile(ctx context.Context, id string) (*models.ProfileResponse, error) {
	if err := validation.ValidateProfileID(id); err != nil {
		return nil, apperrors.NewValidationError("id", err.Error())
	}

	profile := &models.Profile{
		ID:        id,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, apperrors.NewDatabaseError("create profile", err)
	}

	// Re-read so a signup retry returns the surviving row, not the zero one.
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	return s.toResponse(stored), nil
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.ProfileResponse, error) {
	var cached models.Profile
	if err := s.cache.Get(ctx, ProfileCacheKey(id), &cached); err == nil {
		return s.toResponse(&cached), nil
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return nil, apperrors.NewProfileNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	if err := s.cache.Set(ctx, ProfileCacheKey(id), profile, profileCacheTTL); err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Failed to cache profile")
	}

	return s.toResponse(profile), nil
}

// RecordVisit applies the daily streak rules to a profile. The repository
// write is guarded on the previously read last_visit, so of two concurrent
// same-day visits only one persists; the loser re-reads and returns the
// winner's row.
func (s *profileService) RecordVisit(ctx context.Context, id string) (*models.ProfileResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrProfileNotFound {
			return nil, apperrors.NewProfileNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	now := s.now()
	update := CalculateStreak(profile.LastVisit, profile.CurrentStreak, now)
	if !update.ShouldPersist {
		return s.toResponse(profile), nil
	}

	err = s.repo.UpdateStreak(ctx, id, update.NewStreak, now, profile.LastVisit)
	if err == repository.ErrStaleVisit {
		logger.Debug().Str("profile_id", id).Msg("Concurrent visit won the streak update")
	} else if err != nil {
		if err == repository.ErrProfileNotFound {
			return nil, apperrors.NewProfileNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("update streak", err)
	}

	if err := s.cache.Delete(ctx, ProfileCacheKey(id)); err != nil {
		logger.Warn().Err(err).Str("profile_id", id).Msg("Failed to invalidate profile cache")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	return s.toResponse(updated), nil
}

func (s *profileService) GetAdFreeStatus(ctx context.Context, id string) (*models.AdFreeStatus, error) {
	response, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.AdFreeStatus{
		ProfileID: response.ID,
		AdFree:    response.AdFree,
		Threshold: s.adFreeThreshold,
	}, nil
}

func (s *profileService) toResponse(profile *models.Profile) *models.ProfileResponse {
	return &models.ProfileResponse{
		ID:            profile.ID,
		Coins:         profile.Coins,
		CurrentStreak: profile.CurrentStreak,
		LastVisit:     profile.LastVisit,
		AdFree:        profile.Coins >= s.adFreeThreshold,
		CreatedAt:     profile.CreatedAt,
	}
}

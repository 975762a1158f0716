package models

import "time"

// Profile is the per-user engagement and ledger record.
// @Description Reader profile with coin balance and engagement streak
type Profile struct {
	ID            string     `json:"id" example:"usr_8f14e45f" description:"Opaque profile identifier"`
	Coins         int64      `json:"coins" example:"125" description:"Coin balance, never negative"`
	CurrentStreak int        `json:"current_streak" example:"6" description:"Consecutive days visited"`
	LastVisit     *time.Time `json:"last_visit,omitempty" example:"2024-03-15T14:30:00Z" description:"Date of the last streak update"`
	CreatedAt     time.Time  `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt     time.Time  `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}

// ProfileResponse is the public projection of a profile, with the computed
// ad-free flag attached.
// @Description Public profile information
type ProfileResponse struct {
	ID            string     `json:"id" example:"usr_8f14e45f"`
	Coins         int64      `json:"coins" example:"125"`
	CurrentStreak int        `json:"current_streak" example:"6"`
	LastVisit     *time.Time `json:"last_visit,omitempty" example:"2024-03-15T14:30:00Z"`
	AdFree        bool       `json:"ad_free" example:"false" description:"True once the balance reaches the ad-free threshold"`
	CreatedAt     time.Time  `json:"created_at" example:"2024-03-15T14:30:00Z"`
}

// AdFreeStatus is the standalone ad-free check response.
// @Description Ad-free entitlement for a profile
type AdFreeStatus struct {
	ProfileID string `json:"profile_id" example:"usr_8f14e45f"`
	AdFree    bool   `json:"ad_free" example:"true"`
	Threshold int64  `json:"threshold" example:"500"`
}

// CreateProfileRequest bootstraps a profile at signup.
type CreateProfileRequest struct {
	ID string `json:"id" binding:"required"`
}

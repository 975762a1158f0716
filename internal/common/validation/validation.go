package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxReasonLength  = 200
	MaxProfileIDLen  = 64
	MaxEventIDLength = 128

	// Per-event credit cap; anything above this is a provider bug or abuse.
	MaxCoinsPerEvent = 1_000_000
)

// Profile IDs are opaque but URL-safe (UUIDs or short slugs).
var profileIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateProfileID checks an opaque profile identifier.
func ValidateProfileID(id string) error {
	if id == "" {
		return fmt.Errorf("profile id cannot be empty")
	}

	if len(id) > MaxProfileIDLen {
		return fmt.Errorf("profile id cannot exceed %d characters", MaxProfileIDLen)
	}

	if !profileIDRegex.MatchString(id) {
		return fmt.Errorf("profile id contains invalid characters")
	}

	return nil
}

// ValidateEventID checks a provider-assigned event identifier.
func ValidateEventID(id string) error {
	if id == "" {
		return fmt.Errorf("event id cannot be empty")
	}

	if len(id) > MaxEventIDLength {
		return fmt.Errorf("event id cannot exceed %d characters", MaxEventIDLength)
	}

	return nil
}

// ValidateCoinAmount checks a credit/debit amount.
func ValidateCoinAmount(coins int64) error {
	if coins <= 0 {
		return fmt.Errorf("coin amount must be positive")
	}

	if coins > MaxCoinsPerEvent {
		return fmt.Errorf("coin amount cannot exceed %d", MaxCoinsPerEvent)
	}

	return nil
}

// ValidateReason checks a free-text ledger reason.
func ValidateReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason cannot be empty")
	}

	if len(reason) > MaxReasonLength {
		return fmt.Errorf("reason cannot exceed %d characters", MaxReasonLength)
	}

	return nil
}

package service

import "time"

// StreakUpdate is the outcome of applying a visit to a streak.
type StreakUpdate struct {
	NewStreak     int
	ShouldPersist bool
}

// CalculateStreak applies the day-granularity streak rules: a first visit
// starts at 1, a same-day revisit changes nothing, a next-day visit extends
// the streak, and a gap of two or more days resets it.
func CalculateStreak(lastVisit *time.Time, currentStreak int, now time.Time) StreakUpdate {
	if lastVisit == nil {
		return StreakUpdate{NewStreak: 1, ShouldPersist: true}
	}

	switch daysBetween(lastVisit.In(now.Location()), now) {
	case 0:
		return StreakUpdate{NewStreak: currentStreak, ShouldPersist: false}
	case 1:
		return StreakUpdate{NewStreak: currentStreak + 1, ShouldPersist: true}
	default:
		return StreakUpdate{NewStreak: 1, ShouldPersist: true}
	}
}

// daysBetween counts calendar days from a to b. Calendar components are
// rebuilt in UTC so a DST transition cannot make a next-day visit look
// same-day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

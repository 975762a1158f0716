package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}
	return parsed
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name          string
		lastVisit     string // empty means never visited
		currentStreak int
		now           string
		wantStreak    int
		wantPersist   bool
	}{
		{
			name:          "first visit starts at one",
			currentStreak: 0,
			now:           "2024-01-02T09:00:00Z",
			wantStreak:    1,
			wantPersist:   true,
		},
		{
			name:          "same day revisit is a no-op",
			lastVisit:     "2024-01-01T10:00:00Z",
			currentStreak: 5,
			now:           "2024-01-01T23:59:59Z",
			wantStreak:    5,
			wantPersist:   false,
		},
		{
			name:          "next calendar day extends the streak",
			lastVisit:     "2024-01-01T10:00:00Z",
			currentStreak: 5,
			now:           "2024-01-02T09:00:00Z",
			wantStreak:    6,
			wantPersist:   true,
		},
		{
			name:          "next day counts even when under 24 hours elapsed",
			lastVisit:     "2024-01-01T23:30:00Z",
			currentStreak: 2,
			now:           "2024-01-02T00:10:00Z",
			wantStreak:    3,
			wantPersist:   true,
		},
		{
			name:          "two day gap resets",
			lastVisit:     "2024-01-01T10:00:00Z",
			currentStreak: 5,
			now:           "2024-01-03T09:00:00Z",
			wantStreak:    1,
			wantPersist:   true,
		},
		{
			name:          "long gap resets",
			lastVisit:     "2024-01-01T10:00:00Z",
			currentStreak: 5,
			now:           "2024-01-05T09:00:00Z",
			wantStreak:    1,
			wantPersist:   true,
		},
		{
			name:          "month boundary extends",
			lastVisit:     "2024-01-31T22:00:00Z",
			currentStreak: 9,
			now:           "2024-02-01T01:00:00Z",
			wantStreak:    10,
			wantPersist:   true,
		},
		{
			name:          "year boundary extends",
			lastVisit:     "2023-12-31T23:00:00Z",
			currentStreak: 99,
			now:           "2024-01-01T00:30:00Z",
			wantStreak:    100,
			wantPersist:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lastVisit *time.Time
			if tt.lastVisit != "" {
				parsed := ts(t, tt.lastVisit)
				lastVisit = &parsed
			}

			update := CalculateStreak(lastVisit, tt.currentStreak, ts(t, tt.now))

			assert.Equal(t, tt.wantStreak, update.NewStreak)
			assert.Equal(t, tt.wantPersist, update.ShouldPersist)
		})
	}
}

func TestCalculateStreakNilLastVisitIgnoresNow(t *testing.T) {
	for _, now := range []string{"2020-06-15T00:00:00Z", "2024-01-02T09:00:00Z", "2030-12-31T23:59:59Z"} {
		update := CalculateStreak(nil, 7, ts(t, now))
		assert.Equal(t, 1, update.NewStreak)
		assert.True(t, update.ShouldPersist)
	}
}

func TestDaysBetweenCrossesDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 2024-03-31 is the 23-hour spring-forward day in Berlin.
	before := time.Date(2024, 3, 30, 22, 0, 0, 0, loc)
	after := time.Date(2024, 3, 31, 8, 0, 0, 0, loc)

	assert.Equal(t, 1, daysBetween(before, after))
}

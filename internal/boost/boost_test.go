package boost_test

import (
	"testing"
	"time"

	"swapflow/internal/boost"
)

func TestScoreSameDayPin(t *testing.T) {
	now := time.Now().UTC()
	got := boost.Score([]time.Time{now}, now)
	if got != 10.0 {
		t.Fatalf("same-day pin: want 10.0, got %v", got)
	}
}

func TestScoreTenDayOldPin(t *testing.T) {
	now := time.Now().UTC()
	got := boost.Score([]time.Time{now.AddDate(0, 0, -10)}, now)
	if got != 5.0 {
		t.Fatalf("10-day pin: want 5.0, got %v", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	if got := boost.Score(nil, time.Now()); got != 0.0 {
		t.Fatalf("no pins: want 0.0, got %v", got)
	}
}

func TestScoreFloorsPartialDays(t *testing.T) {
	now := time.Now().UTC()
	// 36h elapsed is 1 whole day: 10 / 1.1 = 9.0909... -> 9.09
	got := boost.Score([]time.Time{now.Add(-36 * time.Hour)}, now)
	if got != 9.09 {
		t.Fatalf("36h pin: want 9.09, got %v", got)
	}
}

func TestScoreSumsAndRounds(t *testing.T) {
	now := time.Now().UTC()
	pins := []time.Time{now, now.AddDate(0, 0, -10), now.Add(-36 * time.Hour)}
	// 10.0 + 5.0 + 9.0909... = 24.0909... -> 24.09
	got := boost.Score(pins, now)
	if got != 24.09 {
		t.Fatalf("want 24.09, got %v", got)
	}
}

func TestContributionDecreasesWithAge(t *testing.T) {
	now := time.Now().UTC()
	prev := boost.Contribution(now, now)
	for days := 1; days <= 365; days++ {
		cur := boost.Contribution(now.AddDate(0, 0, -days), now)
		if cur <= 0 {
			t.Fatalf("contribution at %d days not positive: %v", days, cur)
		}
		if cur >= prev {
			t.Fatalf("contribution at %d days (%v) not below previous (%v)", days, cur, prev)
		}
		prev = cur
	}
}

func TestContributionFuturePinClampsToNow(t *testing.T) {
	now := time.Now().UTC()
	if got := boost.Contribution(now.Add(time.Hour), now); got != 10.0 {
		t.Fatalf("future pin: want 10.0, got %v", got)
	}
}

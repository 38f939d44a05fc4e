package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestFinalDeathCountDeterministic(t *testing.T) {
	a := FinalDeathCount("2026-01-17")
	b := FinalDeathCount("2026-01-17")
	if a != b {
		t.Fatalf("same date must yield same reading: %d vs %d", a, b)
	}

	if a < BaseDeathCount-DeathCountVariance || a > BaseDeathCount+DeathCountVariance {
		t.Errorf("reading %d outside variance window of base %d", a, BaseDeathCount)
	}
}

func TestFinalDeathCountVariesAcrossDates(t *testing.T) {
	counts := map[int64]bool{}
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		counts[FinalDeathCount(day.Format(DateFormat))] = true
		day = day.AddDate(0, 0, 1)
	}
	if len(counts) < 10 {
		t.Errorf("30 dates collapsed into %d distinct readings", len(counts))
	}
}

func TestDriftStepBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	yesterday := int64(170000)
	min, max := DriftBounds(yesterday)

	current := yesterday
	for i := 0; i < 10000; i++ {
		next := DriftStep(current, yesterday, rng)

		if next < min || next > max {
			t.Fatalf("tick %d: reading %d escaped [%d, %d]", i, next, min, max)
		}
		delta := next - current
		if delta > MaxDriftStep || delta < -MaxDriftStep {
			t.Fatalf("tick %d: step %d exceeds max %d", i, delta, MaxDriftStep)
		}
		current = next
	}
}

func TestDriftStepClampPins(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	yesterday := int64(1000)
	min, _ := DriftBounds(yesterday)

	// A reading already at the floor can never go below it.
	for i := 0; i < 100; i++ {
		if next := DriftStep(min, yesterday, rng); next < min {
			t.Fatalf("clamp floor violated: %d < %d", next, min)
		}
	}
}

func TestDayKeys(t *testing.T) {
	now := time.Date(2026, 1, 18, 15, 4, 5, 0, time.UTC)
	if Today(now) != "2026-01-18" {
		t.Errorf("Today = %s", Today(now))
	}
	if Yesterday(now) != "2026-01-17" {
		t.Errorf("Yesterday = %s", Yesterday(now))
	}
}

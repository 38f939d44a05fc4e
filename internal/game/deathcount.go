package game

import (
	"math"
	"math/rand"
	"time"
)

const (
	// BaseDeathCount anchors every generated daily reading.
	BaseDeathCount int64 = 170000

	// DeathCountVariance bounds how far a finalized daily reading may
	// land from the base.
	DeathCountVariance int64 = 1000

	// MaxDriftStep caps the per-tick movement of today's live counter.
	MaxDriftStep int64 = 22

	// driftBound keeps today's reading within ±10% of yesterday's
	// finalized reading.
	driftBound = 0.10
)

// DateFormat is the canonical day key for daily records.
const DateFormat = "2006-01-02"

// hashDate folds a date string into a signed 32-bit integer using the
// classic h = h*31 + c rolling hash. This hash is an observable contract:
// changing it would rewrite every historical reading.
func hashDate(date string) int64 {
	var h int32
	for _, c := range date {
		h = h*31 + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return int64(h)
}

// FinalDeathCount returns the finalized reading for a calendar day.
// The date string seeds a deterministic PRNG, so the same date yields the
// same reading forever, across restarts. The value always lies within
// DeathCountVariance of BaseDeathCount.
func FinalDeathCount(date string) int64 {
	rng := rand.New(rand.NewSource(hashDate(date)))
	variance := int64((rng.Float64() - 0.5) * 2 * float64(DeathCountVariance))
	return BaseDeathCount + variance
}

// DriftBounds returns the [min, max] window today's live reading may
// occupy, given yesterday's finalized reading.
func DriftBounds(yesterdayFinal int64) (int64, int64) {
	min := int64(math.Floor(float64(yesterdayFinal) * (1 - driftBound)))
	max := int64(math.Ceil(float64(yesterdayFinal) * (1 + driftBound)))
	return min, max
}

// DriftStep advances the live counter by one signed random step of
// magnitude 1..MaxDriftStep, clamped to the drift bounds. A reading that
// saturates at a bound stays pinned there until the walk turns around;
// the clamp is intentional.
func DriftStep(current, yesterdayFinal int64, rng *rand.Rand) int64 {
	step := rng.Int63n(MaxDriftStep) + 1
	if rng.Float64() < 0.5 {
		step = -step
	}

	next := current + step
	min, max := DriftBounds(yesterdayFinal)
	if next < min {
		next = min
	}
	if next > max {
		next = max
	}
	return next
}

// Today returns now's date key.
func Today(now time.Time) string {
	return now.UTC().Format(DateFormat)
}

// Yesterday returns the date key for the day before now.
func Yesterday(now time.Time) string {
	return now.UTC().AddDate(0, 0, -1).Format(DateFormat)
}

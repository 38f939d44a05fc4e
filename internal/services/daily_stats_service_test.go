package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/repository"
)

func TestEnsureYesterdayFinalIsDeterministic(t *testing.T) {
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	want := game.FinalDeathCount(game.Yesterday(now))

	// Two independent databases finalize yesterday to the same value.
	for i := 0; i < 2; i++ {
		db := setupTestDB(t)
		repo := repository.NewRepository(db)
		stats := NewDailyStatsService(repo, rand.New(rand.NewSource(int64(i))))

		got, err := stats.ensureYesterdayFinal(context.Background(), now)
		if err != nil {
			t.Fatalf("ensureYesterdayFinal failed: %v", err)
		}
		if got != want {
			t.Errorf("run %d: got %d, want deterministic %d", i, got, want)
		}

		stat, err := repo.GetDailyStat(context.Background(), game.Yesterday(now))
		if err != nil || stat == nil {
			t.Fatalf("finalized record missing: %v", err)
		}
		if !stat.IsFinal {
			t.Error("yesterday's record must be final")
		}
	}
}

func TestAdvanceStaysWithinDriftBounds(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	stats := NewDailyStatsService(repo, rand.New(rand.NewSource(42)))
	ctx := context.Background()

	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	yesterdayFinal := game.FinalDeathCount(game.Yesterday(now))
	min, max := game.DriftBounds(yesterdayFinal)

	prev := yesterdayFinal
	for i := 0; i < 200; i++ {
		reading, err := stats.Advance(ctx, now)
		if err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if reading < min || reading > max {
			t.Fatalf("reading %d outside [%d, %d]", reading, min, max)
		}
		if diff := reading - prev; diff > game.MaxDriftStep || diff < -game.MaxDriftStep {
			// A clamped step can be smaller than the drawn step but
			// never larger.
			t.Fatalf("step %d exceeds max drift %d", diff, game.MaxDriftStep)
		}
		prev = reading
	}
}

func TestCurrentReadingFallsBackWithoutWrites(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	stats := NewDailyStatsService(repo, nil)
	ctx := context.Background()

	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	date, reading, err := stats.CurrentReading(ctx, now)
	if err != nil {
		t.Fatalf("CurrentReading failed: %v", err)
	}
	if date != game.Today(now) {
		t.Errorf("wrong date key: %s", date)
	}
	if reading != game.FinalDeathCount(game.Today(now)) {
		t.Errorf("fallback must be the day's deterministic value, got %d", reading)
	}

	// The read-only path leaves no record behind.
	stat, err := repo.GetDailyStat(ctx, date)
	if err != nil {
		t.Fatal(err)
	}
	if stat != nil {
		t.Error("CurrentReading must not write")
	}
}

func TestReadingForSettlementRequiresRecord(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	stats := NewDailyStatsService(repo, rand.New(rand.NewSource(5)))
	ctx := context.Background()

	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	if _, ok, err := stats.ReadingForSettlement(ctx, now); err != nil || ok {
		t.Fatalf("expected no reading before the first tick, ok=%v err=%v", ok, err)
	}

	if _, err := stats.Advance(ctx, now); err != nil {
		t.Fatal(err)
	}

	reading, ok, err := stats.ReadingForSettlement(ctx, now)
	if err != nil || !ok {
		t.Fatalf("expected a reading after advancing, ok=%v err=%v", ok, err)
	}
	if reading == 0 {
		t.Error("stored reading should be nonzero")
	}
}

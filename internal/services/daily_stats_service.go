package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/repository"
)

// DailyStatsService owns the drifting daily death counter: one mutable
// record for today, finalized immutable records for every other day.
type DailyStatsService struct {
	repo *repository.Repository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDailyStatsService creates the counter service. A nil rng falls back
// to a time-seeded source; tests inject a fixed seed.
func NewDailyStatsService(repo *repository.Repository, rng *rand.Rand) *DailyStatsService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DailyStatsService{repo: repo, rng: rng}
}

// ensureYesterdayFinal returns yesterday's finalized reading, computing
// and storing the deterministic value the first time it is needed. Once
// written, the record never changes again.
func (s *DailyStatsService) ensureYesterdayFinal(ctx context.Context, now time.Time) (int64, error) {
	date := game.Yesterday(now)

	stat, err := s.repo.GetDailyStat(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to load yesterday's record: %w", err)
	}
	if stat != nil {
		return stat.DeathCount, nil
	}

	reading := game.FinalDeathCount(date)
	if err := s.repo.CreateFinalDailyStat(ctx, date, reading); err != nil {
		return 0, fmt.Errorf("failed to finalize %s: %w", date, err)
	}

	log.Printf("[DailyStats] Finalized %s at %d", date, reading)
	return reading, nil
}

// Advance moves today's live reading by one bounded random step. Invoked
// once per resolver tick, regardless of how many bets mature on that tick.
func (s *DailyStatsService) Advance(ctx context.Context, now time.Time) (int64, error) {
	yesterdayFinal, err := s.ensureYesterdayFinal(ctx, now)
	if err != nil {
		return 0, err
	}

	today := game.Today(now)
	stat, err := s.repo.GetDailyStat(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to load today's record: %w", err)
	}

	current := yesterdayFinal
	if stat != nil {
		current = stat.DeathCount
	}

	s.mu.Lock()
	next := game.DriftStep(current, yesterdayFinal, s.rng)
	s.mu.Unlock()

	if err := s.repo.UpsertTodayReading(ctx, today, next); err != nil {
		return 0, fmt.Errorf("failed to store today's reading: %w", err)
	}

	return next, nil
}

// CurrentReading is the read-only projection of today's counter. When no
// tick has run yet today it falls back to the deterministic seed value
// without writing anything.
func (s *DailyStatsService) CurrentReading(ctx context.Context, now time.Time) (string, int64, error) {
	today := game.Today(now)

	stat, err := s.repo.GetDailyStat(ctx, today)
	if err != nil {
		return "", 0, err
	}
	if stat != nil {
		return today, stat.DeathCount, nil
	}

	return today, game.FinalDeathCount(today), nil
}

// ReadingForSettlement returns today's stored reading, or ok=false when
// the record does not exist yet. Settlement never fabricates a reading.
func (s *DailyStatsService) ReadingForSettlement(ctx context.Context, now time.Time) (int64, bool, error) {
	stat, err := s.repo.GetDailyStat(ctx, game.Today(now))
	if err != nil {
		return 0, false, err
	}
	if stat == nil {
		return 0, false, nil
	}
	return stat.DeathCount, true, nil
}

package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
)

// TickBroadcaster receives the outcome of each resolver tick. Wired to the
// websocket hub in the server; nil when nothing listens.
type TickBroadcaster interface {
	BroadcastTick(date string, reading int64, resolved int)
}

// ResolverService settles matured bets. Each tick advances the counter once,
// then judges every bet whose expiry has passed against the fresh reading.
type ResolverService struct {
	repo        *repository.Repository
	stats       *DailyStatsService
	broadcaster TickBroadcaster

	mu  sync.Mutex
	rng *rand.Rand
}

func NewResolverService(repo *repository.Repository, stats *DailyStatsService, rng *rand.Rand) *ResolverService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ResolverService{repo: repo, stats: stats, rng: rng}
}

// SetBroadcaster attaches a tick listener. Must be called before the
// resolver job starts.
func (s *ResolverService) SetBroadcaster(b TickBroadcaster) {
	s.broadcaster = b
}

// ResolveTick runs one settlement pass and returns how many bets were
// settled together with the current counter reading.
func (s *ResolverService) ResolveTick(ctx context.Context, now time.Time) (int, int64, error) {
	reading, err := s.stats.Advance(ctx, now)
	haveReading := err == nil
	if err != nil {
		// Counter bets cannot be judged without a reading, but draw
		// variants still settle on schedule.
		log.Printf("[Resolver] Counter advance failed: %v", err)
		var ok bool
		reading, ok, err = s.stats.ReadingForSettlement(ctx, now)
		if err != nil {
			log.Printf("[Resolver] No reading available: %v", err)
		}
		haveReading = ok && err == nil
	}

	bets, err := s.repo.FindExpiredBets(ctx, now)
	if err != nil {
		return 0, reading, err
	}

	resolved := 0
	for _, bet := range bets {
		settled, err := s.settleOne(ctx, bet, reading, haveReading, now)
		if err != nil {
			log.Printf("[Resolver] Failed to settle bet %s: %v", bet.ID, err)
			continue
		}
		if settled {
			resolved++
		}
	}

	if resolved > 0 {
		log.Printf("[Resolver] Settled %d bet(s) at reading %d", resolved, reading)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTick(game.Today(now), reading, resolved)
	}
	return resolved, reading, nil
}

func (s *ResolverService) settleOne(ctx context.Context, bet *models.Bet, reading int64, haveReading bool, now time.Time) (bool, error) {
	variant, ok := game.LookupVariant(bet.Variant)
	if !ok {
		// Orphaned row from a removed variant; leave it alone.
		log.Printf("[Resolver] Bet %s has unknown variant %q, skipping", bet.ID, bet.Variant)
		return false, nil
	}

	var result game.Result
	var resolvedCount *int64

	switch variant.Kind {
	case game.KindCounterDrift:
		if !haveReading || bet.SnapshotCount == nil {
			// Without ground truth the bet stays pending until a
			// later tick can judge it.
			return false, nil
		}
		result = game.SettleCounter(bet.Prediction, *bet.SnapshotCount, reading, bet.Amount)
		r := reading
		resolvedCount = &r
	default:
		s.mu.Lock()
		winning := variant.DrawWinner(s.rng)
		s.mu.Unlock()
		result = game.SettleDraw(bet.Prediction, winning, bet.Amount)
	}

	err := s.repo.SettleBet(ctx, bet.ID, bet.UserID, result.Won, result.Payout, resolvedCount, now)
	if errors.Is(err, repository.ErrBetNotPending) {
		// Another resolver pass got there first.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
)

var (
	ErrInvalidAmount     = errors.New("bet amount must be positive")
	ErrUnknownVariant    = errors.New("unknown game variant")
	ErrInvalidPrediction = errors.New("prediction is not valid for this variant")
)

// BettingService validates and places wagers against the user's balance.
type BettingService struct {
	repo  *repository.Repository
	stats *DailyStatsService
}

func NewBettingService(repo *repository.Repository, stats *DailyStatsService) *BettingService {
	return &BettingService{repo: repo, stats: stats}
}

// PlaceBet debits the stake and records the pending bet atomically. The
// counter variant additionally snapshots the current reading so the bet
// can later be judged against where the counter moved.
func (s *BettingService) PlaceBet(ctx context.Context, userID uint, req *models.PlaceBetRequest, now time.Time) (*models.Bet, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	variant, ok := game.LookupVariant(req.Variant)
	if !ok {
		return nil, ErrUnknownVariant
	}
	if !variant.ValidPrediction(req.Prediction) {
		return nil, ErrInvalidPrediction
	}

	bet := &models.Bet{
		ID:         uuid.New(),
		UserID:     userID,
		Variant:    variant.Name,
		Prediction: req.Prediction,
		Amount:     req.Amount,
		ExpiresAt:  now.Add(variant.Duration),
		CreatedAt:  now,
	}

	if variant.NeedsSnapshot() {
		_, reading, err := s.stats.CurrentReading(ctx, now)
		if err != nil {
			return nil, err
		}
		bet.SnapshotCount = &reading
	}

	if err := s.repo.PlaceBet(ctx, bet); err != nil {
		return nil, err
	}

	log.Printf("[Betting] User %d placed %d on %s/%s (bet %s)",
		userID, bet.Amount, bet.Variant, bet.Prediction, bet.ID)
	return bet, nil
}

// ListPending returns the user's open bets, newest first.
func (s *BettingService) ListPending(ctx context.Context, userID uint) ([]*models.Bet, error) {
	return s.repo.ListPendingBets(ctx, userID)
}

// ListSettled returns the user's concluded bets, most recently settled first.
func (s *BettingService) ListSettled(ctx context.Context, userID uint, limit int) ([]*models.Bet, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListSettledBets(ctx, userID, limit)
}

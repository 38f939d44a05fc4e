package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vedamire/trumanclaw/internal/repository"
)

// UserStats summarizes a user's betting record. WinRate is a percentage
// over decided bets only; pushes are excluded from the denominator.
type UserStats struct {
	TotalBets    int64           `json:"totalBets"`
	Wins         int64           `json:"wins"`
	Losses       int64           `json:"losses"`
	Pushes       int64           `json:"pushes"`
	WinRate      decimal.Decimal `json:"winRate"`
	TotalWagered int64           `json:"totalWagered"`
	TotalPaidOut int64           `json:"totalPaidOut"`
	Net          int64           `json:"net"`
}

// StatsService computes per-user betting statistics.
type StatsService struct {
	repo *repository.Repository
}

func NewStatsService(repo *repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) UserStats(ctx context.Context, userID uint) (*UserStats, error) {
	tally, err := s.repo.TallyBets(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalBets:    tally.TotalBets,
		Wins:         tally.Wins,
		Losses:       tally.Losses,
		Pushes:       tally.Pushes,
		TotalWagered: tally.TotalWagered,
		TotalPaidOut: tally.TotalPaidOut,
		Net:          tally.TotalPaidOut - tally.TotalWagered,
	}

	decided := tally.Wins + tally.Losses
	if decided > 0 {
		stats.WinRate = decimal.NewFromInt(tally.Wins).
			Div(decimal.NewFromInt(decided)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return stats, nil
}

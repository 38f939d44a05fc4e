package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vedamire/trumanclaw/internal/repository"
)

const (
	leaderboardCacheKey = "trumanclaw:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
	leaderboardSize     = 20
)

// LeaderboardEntry is one row of the public balance ranking.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Nickname string `json:"nickname"`
	Balance  int64  `json:"balance"`
	Wins     int64  `json:"wins"`
	Losses   int64  `json:"losses"`
}

// LeaderboardService ranks users by balance, with a short-lived Redis
// cache in front of the database. A nil client disables caching.
type LeaderboardService struct {
	repo  *repository.Repository
	redis *redis.Client
}

func NewLeaderboardService(repo *repository.Repository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{repo: repo, redis: rdb}
}

func (s *LeaderboardService) Top(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, leaderboardCacheKey).Bytes()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			log.Printf("[Leaderboard] Cache read failed: %v", err)
		}
	}

	users, err := s.repo.TopBalances(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Nickname: u.Nickname,
			Balance:  u.Balance,
			Wins:     u.TotalWins,
			Losses:   u.TotalLosses,
		})
	}

	if s.redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("[Leaderboard] Cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}

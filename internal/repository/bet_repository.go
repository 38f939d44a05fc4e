package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vedamire/trumanclaw/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficientBalance is returned when a debit would overdraw the
	// account. The conditional UPDATE rejects it without mutating state.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBetNotPending is returned when a settle update matched zero rows:
	// another resolver already settled the bet. Callers treat it as a
	// designed no-op, not a failure.
	ErrBetNotPending = errors.New("bet is not pending")

	// ErrAgentNotClaimable is returned when a claim code is unknown or the
	// agent was already claimed.
	ErrAgentNotClaimable = errors.New("agent cannot be claimed")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ============================================================================
// Users
// ============================================================================

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, or nil if none exists
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// TopBalances retrieves the wealthiest users, richest first
func (r *Repository) TopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("balance DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ============================================================================
// Bets
// ============================================================================

// PlaceBet atomically debits the wager from the user's balance and inserts
// the pending bet. Both happen or neither does. The debit carries the
// balance check in its WHERE clause, so an all-in wager succeeds and an
// overdraw fails without a read-then-write race.
func (r *Repository) PlaceBet(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", bet.UserID, bet.Amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", bet.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		return tx.Create(bet).Error
	})
}

// SettleBet flips a bet from pending to settled and co-commits the payout
// credit plus the win/loss tally. The flip is a single conditional UPDATE
// on "still pending": whichever concurrent caller wins the race settles
// the bet, every other caller gets ErrBetNotPending and no state change.
func (r *Repository) SettleBet(
	ctx context.Context,
	betID uuid.UUID,
	userID uint,
	won *bool,
	payout int64,
	resolvedCount *int64,
	now time.Time,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bet{}).
			Where("id = ? AND is_settled = ?", betID, false).
			Updates(map[string]interface{}{
				"is_settled":     true,
				"won":            won,
				"payout":         payout,
				"resolved_count": resolvedCount,
				"settled_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBetNotPending
		}

		if payout > 0 {
			err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				UpdateColumn("balance", gorm.Expr("balance + ?", payout)).Error
			if err != nil {
				return err
			}
		}

		// Pushes (won == nil) count as neither a win nor a loss.
		if won != nil {
			column := "total_losses"
			if *won {
				column = "total_wins"
			}
			err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				UpdateColumn(column, gorm.Expr(column+" + 1")).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// FindExpiredBets retrieves all pending bets whose expiry has passed.
// This is the sole input to the resolver.
func (r *Repository) FindExpiredBets(ctx context.Context, now time.Time) ([]*models.Bet, error) {
	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Where("is_settled = ? AND expires_at <= ?", false, now).
		Order("created_at ASC").
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

// ListPendingBets retrieves a user's unresolved bets, newest first
func (r *Repository) ListPendingBets(ctx context.Context, userID uint) ([]*models.Bet, error) {
	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_settled = ?", userID, false).
		Order("created_at DESC").
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

// ListSettledBets retrieves a user's settled history, newest first
func (r *Repository) ListSettledBets(ctx context.Context, userID uint, limit int) ([]*models.Bet, error) {
	var bets []*models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_settled = ?", userID, true).
		Order("settled_at DESC").
		Limit(limit).
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

// ============================================================================
// Daily stats
// ============================================================================

// GetDailyStat retrieves the counter record for a date, or nil if none
func (r *Repository) GetDailyStat(ctx context.Context, date string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// CreateFinalDailyStat inserts a finalized day record. Concurrent ticks
// may both try to finalize the same day; the conflict clause makes the
// loser a no-op so the first finalized reading is permanent.
func (r *Repository) CreateFinalDailyStat(ctx context.Context, date string, reading int64) error {
	stat := models.DailyStat{
		Date:       date,
		DeathCount: reading,
		IsFinal:    true,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).
		Create(&stat).Error
}

// UpsertTodayReading writes today's live reading. The update path refuses
// to touch finalized rows, so a closed day can never drift again.
func (r *Repository) UpsertTodayReading(ctx context.Context, date string, reading int64) error {
	stat := models.DailyStat{
		Date:       date,
		DeathCount: reading,
		IsFinal:    false,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"death_count": gorm.Expr("CASE WHEN daily_stats.is_final THEN daily_stats.death_count ELSE ? END", reading),
				"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&stat).Error
}

// ============================================================================
// Agents
// ============================================================================

// CreateAgent creates a new agent
func (r *Repository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// GetAgentByKeyHash retrieves an active agent by its hashed API key
func (r *Repository) GetAgentByKeyHash(ctx context.Context, keyHash string) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).
		Where("api_key_hash = ? AND is_active = ?", keyHash, true).
		First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// ClaimAgent links an agent to a user exactly once. The "not yet claimed"
// condition is part of the UPDATE itself, so a claim code can never be
// redeemed twice.
func (r *Repository) ClaimAgent(ctx context.Context, claimCode string, userID uint, now time.Time) (*models.Agent, error) {
	res := r.db.WithContext(ctx).Model(&models.Agent{}).
		Where("claim_code = ? AND claimed_at IS NULL", claimCode).
		Updates(map[string]interface{}{
			"owner_id":   userID,
			"is_active":  true,
			"claimed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAgentNotClaimable
	}

	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("claim_code = ?", claimCode).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// BetTally is the aggregate breakdown of a user's settled bets.
type BetTally struct {
	TotalBets    int64
	Wins         int64
	Losses       int64
	Pushes       int64
	TotalWagered int64
	TotalPaidOut int64
}

// TallyBets aggregates the user's settled bets in a single query.
func (r *Repository) TallyBets(ctx context.Context, userID uint) (*BetTally, error) {
	var tally BetTally
	err := r.db.WithContext(ctx).Model(&models.Bet{}).
		Select(`COUNT(*) AS total_bets,
			COALESCE(SUM(CASE WHEN won THEN 1 ELSE 0 END), 0) AS wins,
			COALESCE(SUM(CASE WHEN won = ? THEN 1 ELSE 0 END), 0) AS losses,
			COALESCE(SUM(CASE WHEN won IS NULL THEN 1 ELSE 0 END), 0) AS pushes,
			COALESCE(SUM(amount), 0) AS total_wagered,
			COALESCE(SUM(COALESCE(payout, 0)), 0) AS total_paid_out`, false).
		Where("user_id = ? AND is_settled = ?", userID, true).
		Scan(&tally).Error
	if err != nil {
		return nil, err
	}
	return &tally, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vedamire/trumanclaw/internal/auth"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
	"github.com/vedamire/trumanclaw/internal/services"
)

// BetHandler handles bet placement and history endpoints
type BetHandler struct {
	bettingService *services.BettingService
	userService    *services.UserService
	statsService   *services.StatsService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(bettingService *services.BettingService, userService *services.UserService, statsService *services.StatsService) *BetHandler {
	return &BetHandler{
		bettingService: bettingService,
		userService:    userService,
		statsService:   statsService,
	}
}

// PlaceBet validates and places a wager, debiting the stake up front.
// POST /api/bets
func (h *BetHandler) PlaceBet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.bettingService.PlaceBet(c.Request.Context(), userID, &req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrUnknownVariant),
			errors.Is(err, services.ErrInvalidPrediction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place bet"})
		}
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, models.PlaceBetResponse{
		BetID:   bet.ID.String(),
		Balance: user.Balance,
	})
}

// ListPending returns the user's open bets.
// GET /api/bets/pending
func (h *BetHandler) ListPending(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	bets, err := h.bettingService.ListPending(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bets": bets})
}

// ListHistory returns the user's settled bets, most recent first.
// GET /api/bets/history?limit=50
func (h *BetHandler) ListHistory(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	bets, err := h.bettingService.ListSettled(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bets": bets})
}

// Stats returns the user's aggregate betting record.
// GET /api/bets/stats
func (h *BetHandler) Stats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	stats, err := h.statsService.UserStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vedamire/trumanclaw/internal/services"
)

// LeaderboardHandler serves the public balance ranking
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Top returns the highest balances.
// GET /api/leaderboard
func (h *LeaderboardHandler) Top(c *gin.Context) {
	entries, err := h.leaderboardService.Top(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/services"
)

// StatsHandler exposes the daily counter and the resolve tick endpoint
type StatsHandler struct {
	statsService    *services.DailyStatsService
	resolverService *services.ResolverService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *services.DailyStatsService, resolverService *services.ResolverService) *StatsHandler {
	return &StatsHandler{
		statsService:    statsService,
		resolverService: resolverService,
	}
}

// DailyStats returns today's counter reading without advancing it.
// GET /api/daily-stats
func (h *StatsHandler) DailyStats(c *gin.Context) {
	date, reading, err := h.statsService.CurrentReading(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load daily stats"})
		return
	}

	c.JSON(http.StatusOK, models.DailyStatResponse{
		Success:    true,
		Date:       date,
		DeathCount: reading,
	})
}

// ResolveBets runs one settlement pass on demand. The background job
// calls the same service; this endpoint exists for clients that poll.
// GET|POST /api/resolve-bets
func (h *StatsHandler) ResolveBets(c *gin.Context) {
	resolved, reading, err := h.resolverService.ResolveTick(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve bets"})
		return
	}

	c.JSON(http.StatusOK, models.ResolveTickResponse{
		Success:        true,
		Resolved:       resolved,
		CurrentReading: reading,
	})
}

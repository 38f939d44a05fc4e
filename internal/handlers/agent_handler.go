package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vedamire/trumanclaw/internal/auth"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
	"github.com/vedamire/trumanclaw/internal/services"
)

// AgentHandler handles automated bettor registration and claiming
type AgentHandler struct {
	agentService *services.AgentService
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentService *services.AgentService) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
	}
}

// Register creates an agent and returns its API key and claim code.
// Both are shown exactly once.
// POST /api/agent/register
func (h *AgentHandler) Register(c *gin.Context) {
	var req models.RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, apiKey, claimCode, err := h.agentService.RegisterAgent(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAgentName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register agent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agent":      agent,
		"api_key":    apiKey,
		"claim_code": claimCode,
	})
}

// Claim binds an unclaimed agent to the authenticated user.
// POST /api/agent/claim
func (h *AgentHandler) Claim(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req models.ClaimAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.agentService.ClaimAgent(c.Request.Context(), userID, req.ClaimCode)
	if err != nil {
		if errors.Is(err, repository.ErrAgentNotClaimable) {
			c.JSON(http.StatusConflict, gin.H{"error": "claim code is invalid or already used"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim agent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// Me resolves the agent behind an X-API-Key header.
// GET /api/agent/me
func (h *AgentHandler) Me(c *gin.Context) {
	apiKey := c.GetHeader("X-API-Key")
	if apiKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "X-API-Key header required"})
		return
	}

	agent, err := h.agentService.AuthenticateKey(c.Request.Context(), apiKey)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAPIKey) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate agent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
)

var (
	ErrInvalidAgentName = errors.New("agent name must be 3-50 characters")
	ErrInvalidAPIKey    = errors.New("invalid API key")
)

// AgentService manages automated bettor registrations. Agents get a
// base58 API key shown once at registration; only its hash is stored.
type AgentService struct {
	repo *repository.Repository
}

func NewAgentService(repo *repository.Repository) *AgentService {
	return &AgentService{repo: repo}
}

// RegisterAgent creates an unclaimed agent and returns the plaintext API
// key and claim code. Neither is recoverable afterwards.
func (s *AgentService) RegisterAgent(ctx context.Context, req *models.RegisterAgentRequest) (*models.Agent, string, string, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 || len(name) > 50 {
		return nil, "", "", ErrInvalidAgentName
	}

	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, "", "", fmt.Errorf("failed to generate API key: %w", err)
	}
	apiKey := "tc_" + base58.Encode(keyBytes)

	codeBytes := make([]byte, 8)
	if _, err := rand.Read(codeBytes); err != nil {
		return nil, "", "", fmt.Errorf("failed to generate claim code: %w", err)
	}
	claimCode := base58.Encode(codeBytes)

	agent := &models.Agent{
		ID:           uuid.New(),
		Name:         name,
		APIKeyHash:   hashAPIKey(apiKey),
		APIKeyPrefix: apiKey[:12] + "...",
		ClaimCode:    claimCode,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateAgent(ctx, agent); err != nil {
		return nil, "", "", err
	}

	log.Printf("[Agent] Registered agent %s (%s)", agent.Name, agent.APIKeyPrefix)
	return agent, apiKey, claimCode, nil
}

// ClaimAgent binds an unclaimed agent to a user account. A claim code is
// single-use; the second attempt fails.
func (s *AgentService) ClaimAgent(ctx context.Context, userID uint, claimCode string) (*models.Agent, error) {
	agent, err := s.repo.ClaimAgent(ctx, strings.TrimSpace(claimCode), userID, time.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("[Agent] Agent %s claimed by user %d", agent.Name, userID)
	return agent, nil
}

// AuthenticateKey resolves an API key to its active agent.
func (s *AgentService) AuthenticateKey(ctx context.Context, apiKey string) (*models.Agent, error) {
	if !strings.HasPrefix(apiKey, "tc_") {
		return nil, ErrInvalidAPIKey
	}
	agent, err := s.repo.GetAgentByKeyHash(ctx, hashAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if agent == nil || !agent.IsActive {
		return nil, ErrInvalidAPIKey
	}
	return agent, nil
}

func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

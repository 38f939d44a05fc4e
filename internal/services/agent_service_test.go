package services

import (
	"context"
	"strings"
	"testing"

	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
)

func TestRegisterAgentValidatesName(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(repository.NewRepository(db))
	ctx := context.Background()

	for _, name := range []string{"", "ab", "  a  ", strings.Repeat("x", 51)} {
		_, _, _, err := agents.RegisterAgent(ctx, &models.RegisterAgentRequest{Name: name})
		if err != ErrInvalidAgentName {
			t.Errorf("name %q: expected ErrInvalidAgentName, got %v", name, err)
		}
	}
}

func TestRegisterAndAuthenticateAgent(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(repository.NewRepository(db))
	ctx := context.Background()

	agent, apiKey, claimCode, err := agents.RegisterAgent(ctx, &models.RegisterAgentRequest{Name: "scout"})
	if err != nil {
		t.Fatalf("RegisterAgent failed: %v", err)
	}

	if !strings.HasPrefix(apiKey, "tc_") {
		t.Errorf("API key missing tc_ prefix: %s", apiKey)
	}
	if claimCode == "" {
		t.Error("claim code must be returned at registration")
	}
	if agent.APIKeyHash == apiKey {
		t.Error("plaintext key must not be stored")
	}
	if !strings.HasSuffix(agent.APIKeyPrefix, "...") {
		t.Errorf("display prefix malformed: %s", agent.APIKeyPrefix)
	}

	// The full key authenticates; a mangled key does not.
	got, err := agents.AuthenticateKey(ctx, apiKey)
	if err != nil {
		t.Fatalf("AuthenticateKey failed: %v", err)
	}
	if got.ID != agent.ID {
		t.Error("authenticated wrong agent")
	}

	if _, err := agents.AuthenticateKey(ctx, apiKey+"x"); err != ErrInvalidAPIKey {
		t.Errorf("expected ErrInvalidAPIKey for wrong key, got %v", err)
	}
	if _, err := agents.AuthenticateKey(ctx, "not-a-key"); err != ErrInvalidAPIKey {
		t.Errorf("expected ErrInvalidAPIKey for bad prefix, got %v", err)
	}
}

func TestClaimAgentOnce(t *testing.T) {
	db := setupTestDB(t)
	agents := NewAgentService(repository.NewRepository(db))
	ctx := context.Background()

	user := newTestUser(t, db, 1000)
	other := newTestUser(t, db, 1000)

	_, _, claimCode, err := agents.RegisterAgent(ctx, &models.RegisterAgentRequest{Name: "scout"})
	if err != nil {
		t.Fatal(err)
	}

	claimed, err := agents.ClaimAgent(ctx, user.ID, claimCode)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if claimed.OwnerID == nil || *claimed.OwnerID != user.ID {
		t.Error("agent not bound to claiming user")
	}

	if _, err := agents.ClaimAgent(ctx, other.ID, claimCode); err != repository.ErrAgentNotClaimable {
		t.Fatalf("expected ErrAgentNotClaimable, got %v", err)
	}
}

package services

import (
	"context"
	"fmt"
	"log"

	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/models"
	"github.com/vedamire/trumanclaw/internal/repository"
	"github.com/vedamire/trumanclaw/internal/utils"
)

// UserService handles account lifecycle
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// EnsureUser returns the account for an email, creating it on first login.
// The starting balance is granted exactly once, at creation; an existing
// account is never re-initialized.
func (s *UserService) EnsureUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	nickname, err := utils.GenerateNickname()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nickname: %w", err)
	}

	user = &models.User{
		Email:    email,
		Nickname: nickname,
		Balance:  game.InitialBalance,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Two first-logins can race on the unique email index; the loser
		// adopts the row the winner created.
		existing, lookupErr := s.repo.GetUserByEmail(ctx, email)
		if lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Created account %d (%s) with starting balance %d",
		user.ID, user.Nickname, user.Balance)

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

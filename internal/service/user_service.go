package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/meetlink/signaling-service/internal/domain"
	"github.com/meetlink/signaling-service/internal/postgres"
)

type UserService struct {
	userRepo *postgres.UserRepository
}

func NewUserService(userRepo *postgres.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a user; the username is unique, displayName defaults to it.
func (s *UserService) Register(ctx context.Context, username, displayName string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	u := &domain.User{
		Username:    username,
		DisplayName: displayName,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if err == domain.ErrUserExists {
			return nil, err
		}
		return nil, fmt.Errorf("userRepo.Create: %w", err)
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

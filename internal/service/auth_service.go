package service

import (
	"context"
	"errors"
	"fmt"

	"microloan/internal/model"
	"microloan/internal/repository"
	"microloan/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid telephone or password")

// AuthService provides credential verification and token issuance
type AuthService interface {
	Login(ctx context.Context, telephone, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Login authenticates a user and returns a JWT token. Unknown telephone and
// wrong password collapse into the same error so callers cannot probe for
// registered numbers.
func (s *authService) Login(ctx context.Context, telephone, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByTelephone(ctx, telephone)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by telephone: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

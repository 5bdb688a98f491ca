package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"microloan/internal/model"
	"microloan/internal/repository"
	"microloan/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTelephoneExists = errors.New("telephone already exists")
)

// UserService provides registration and user lookup
type UserService interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error)
	CreateAdmin(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByTelephone(ctx context.Context, telephone string) (*model.User, error)
	List(ctx context.Context, filters model.UserFilters, page, limit int) ([]model.User, model.PageMeta, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) UserService {
	return &userService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Create registers a new END_USER account and logs it in
func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error) {
	return s.create(ctx, req, model.RoleEndUser)
}

// CreateAdmin registers a new ADMIN account. The route-level guard decides
// who may call this.
func (s *userService) CreateAdmin(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error) {
	return s.create(ctx, req, model.RoleAdmin)
}

func (s *userService) create(ctx context.Context, req model.CreateUserRequest, role string) (*model.User, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Telephone:    req.Telephone,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateTelephone) {
			return nil, "", fmt.Errorf("%w: telephone (%s)", ErrTelephoneExists, req.Telephone)
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %s) created, but failed to generate token: %v", user.Telephone, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByTelephone retrieves a user by telephone
func (s *userService) GetByTelephone(ctx context.Context, telephone string) (*model.User, error) {
	user, err := s.userRepo.FindByTelephone(ctx, telephone)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by telephone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves one page of users plus pagination metadata
func (s *userService) List(ctx context.Context, filters model.UserFilters, page, limit int) ([]model.User, model.PageMeta, error) {
	page, limit = model.ClampPage(page, limit)

	users, total, err := s.userRepo.FindAll(ctx, filters, page, limit)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, model.NewPageMeta(page, limit, total), nil
}

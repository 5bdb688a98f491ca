package service

import (
	"context"
	"fmt"

	"microloan/internal/repository"
)

// PlatformStats summarizes the platform for the admin dashboard
type PlatformStats struct {
	Users int64 `json:"users"`
	Loans int64 `json:"loans"`
}

// AdminService provides administrative reporting
type AdminService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
}

type adminService struct {
	userRepo repository.UserRepository
	loanRepo repository.LoanRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, loanRepo repository.LoanRepository) AdminService {
	return &adminService{userRepo: userRepo, loanRepo: loanRepo}
}

// Stats returns total user and loan counts
func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	loans, err := s.loanRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	return &PlatformStats{Users: users, Loans: loans}, nil
}

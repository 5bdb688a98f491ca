package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"microloan/internal/model"
	"microloan/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrAmountExceedsRule = errors.New("loan amount must not exceed 1/3 of the monthly income")
	ErrNotLoanOwner      = errors.New("this loan is not registered to you")
	ErrLoanNotPending    = errors.New("loan has already been submitted")
	ErrLoanNotSubmitted  = errors.New("loan must be submitted first")
)

// LoanService owns the loan lifecycle:
// PENDING -> SUBMITTED (owner only) -> APPROVED or DECLINED (admin only).
type LoanService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req model.CreateLoanRequest) (*model.Loan, error)
	Submit(ctx context.Context, callerID, loanID uuid.UUID) (*model.Loan, error)
	Approve(ctx context.Context, loanID uuid.UUID) (*model.Loan, error)
	Decline(ctx context.Context, loanID uuid.UUID) (*model.Loan, error)
	GetByID(ctx context.Context, loanID uuid.UUID) (*model.Loan, error)
	List(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, model.PageMeta, error)
	Delete(ctx context.Context, loanID uuid.UUID) (*model.Loan, error)
}

type loanService struct {
	loanRepo repository.LoanRepository
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo repository.LoanRepository) LoanService {
	return &loanService{loanRepo: loanRepo}
}

// Create persists a new PENDING loan owned by ownerID. The requested amount
// may not exceed a third of the declared monthly income; the boundary value
// itself is allowed.
func (s *loanService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreateLoanRequest) (*model.Loan, error) {
	if req.Amount > req.MonthlyIncome/3 {
		return nil, ErrAmountExceedsRule
	}

	loan := &model.Loan{
		ID:            uuid.New(),
		UserID:        ownerID,
		Amount:        req.Amount,
		MonthlyIncome: req.MonthlyIncome,
		Status:        model.LoanStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan in repo: %w", err)
	}
	return loan, nil
}

// Submit transitions the caller's own loan from PENDING to SUBMITTED.
func (s *loanService) Submit(ctx context.Context, callerID, loanID uuid.UUID) (*model.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan for submission: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	if loan.UserID != callerID {
		return nil, ErrNotLoanOwner
	}

	updated, err := s.loanRepo.UpdateStatus(ctx, loanID, model.LoanStatusPending, model.LoanStatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to submit loan: %w", err)
	}
	if updated == nil {
		// The status guard in the update matched nothing: the loan is not
		// PENDING anymore (or was deleted concurrently).
		return nil, ErrLoanNotPending
	}
	return updated, nil
}

// Approve transitions a SUBMITTED loan to APPROVED
func (s *loanService) Approve(ctx context.Context, loanID uuid.UUID) (*model.Loan, error) {
	return s.review(ctx, loanID, model.LoanStatusApproved)
}

// Decline transitions a SUBMITTED loan to DECLINED
func (s *loanService) Decline(ctx context.Context, loanID uuid.UUID) (*model.Loan, error) {
	return s.review(ctx, loanID, model.LoanStatusDeclined)
}

func (s *loanService) review(ctx context.Context, loanID uuid.UUID, toStatus string) (*model.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan for review: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}

	updated, err := s.loanRepo.UpdateStatus(ctx, loanID, model.LoanStatusSubmitted, toStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update loan status: %w", err)
	}
	if updated == nil {
		return nil, ErrLoanNotSubmitted
	}
	return updated, nil
}

// GetByID retrieves a loan by ID
func (s *loanService) GetByID(ctx context.Context, loanID uuid.UUID) (*model.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan by ID: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return loan, nil
}

// List retrieves one page of loans plus pagination metadata
func (s *loanService) List(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, model.PageMeta, error) {
	page, limit = model.ClampPage(page, limit)

	loans, total, err := s.loanRepo.FindAll(ctx, filters, page, limit)
	if err != nil {
		return nil, model.PageMeta{}, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, model.NewPageMeta(page, limit, total), nil
}

// Delete removes a loan in any status and returns the removed record
func (s *loanService) Delete(ctx context.Context, loanID uuid.UUID) (*model.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan for deletion: %w", err)
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}

	if err := s.loanRepo.Delete(ctx, loanID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to delete loan in repo: %w", err)
	}
	return loan, nil
}

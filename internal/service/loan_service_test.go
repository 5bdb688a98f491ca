package service

import (
	"context"
	"testing"

	"microloan/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loanRepoFake implements repository.LoanRepository with overridable funcs
type loanRepoFake struct {
	CreateFn       func(ctx context.Context, loan *model.Loan) error
	FindByIDFn     func(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error)
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	FindAllFn      func(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, int64, error)
	CountFn        func(ctx context.Context) (int64, error)
}

func (f *loanRepoFake) Create(ctx context.Context, loan *model.Loan) error {
	return f.CreateFn(ctx, loan)
}
func (f *loanRepoFake) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *loanRepoFake) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
	return f.UpdateStatusFn(ctx, id, fromStatus, toStatus)
}
func (f *loanRepoFake) Delete(ctx context.Context, id uuid.UUID) error {
	return f.DeleteFn(ctx, id)
}
func (f *loanRepoFake) FindAll(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, int64, error) {
	return f.FindAllFn(ctx, filters, page, limit)
}
func (f *loanRepoFake) Count(ctx context.Context) (int64, error) {
	return f.CountFn(ctx)
}

func TestLoanService_Create(t *testing.T) {
	ownerID := uuid.New()
	var created *model.Loan
	repo := &loanRepoFake{
		CreateFn: func(ctx context.Context, loan *model.Loan) error {
			created = loan
			return nil
		},
	}
	svc := NewLoanService(repo)

	loan, err := svc.Create(context.Background(), ownerID, model.CreateLoanRequest{Amount: 4000, MonthlyIncome: 15000})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, ownerID, loan.UserID)
	assert.Equal(t, model.LoanStatusPending, loan.Status)
	assert.Equal(t, 4000.0, loan.Amount)
	assert.NotEqual(t, uuid.Nil, loan.ID)
}

func TestLoanService_Create_AmountRule(t *testing.T) {
	repo := &loanRepoFake{
		CreateFn: func(ctx context.Context, loan *model.Loan) error { return nil },
	}
	svc := NewLoanService(repo)

	// Above a third of the income: rejected.
	_, err := svc.Create(context.Background(), uuid.New(), model.CreateLoanRequest{Amount: 5001, MonthlyIncome: 15000})
	assert.ErrorIs(t, err, ErrAmountExceedsRule)

	// Exactly a third: allowed.
	_, err = svc.Create(context.Background(), uuid.New(), model.CreateLoanRequest{Amount: 5000, MonthlyIncome: 15000})
	assert.NoError(t, err)
}

func TestLoanService_Submit(t *testing.T) {
	ownerID := uuid.New()
	loanID := uuid.New()
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: loanID, UserID: ownerID, Status: model.LoanStatusPending}, nil
		},
		UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
			assert.Equal(t, model.LoanStatusPending, fromStatus)
			assert.Equal(t, model.LoanStatusSubmitted, toStatus)
			return &model.Loan{ID: loanID, UserID: ownerID, Status: toStatus}, nil
		},
	}
	svc := NewLoanService(repo)

	loan, err := svc.Submit(context.Background(), ownerID, loanID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusSubmitted, loan.Status)
}

func TestLoanService_Submit_NotFound(t *testing.T) {
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) { return nil, nil },
	}
	svc := NewLoanService(repo)

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestLoanService_Submit_NotOwner(t *testing.T) {
	updateCalled := false
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: id, UserID: uuid.New(), Status: model.LoanStatusPending}, nil
		},
		UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
			updateCalled = true
			return nil, nil
		},
	}
	svc := NewLoanService(repo)

	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotLoanOwner)
	assert.False(t, updateCalled, "no state mutation may happen on an ownership failure")
}

func TestLoanService_Submit_NotPending(t *testing.T) {
	ownerID := uuid.New()
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: id, UserID: ownerID, Status: model.LoanStatusSubmitted}, nil
		},
		UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
			return nil, nil // status guard matched nothing
		},
	}
	svc := NewLoanService(repo)

	_, err := svc.Submit(context.Background(), ownerID, uuid.New())
	assert.ErrorIs(t, err, ErrLoanNotPending)
}

func TestLoanService_Approve(t *testing.T) {
	loanID := uuid.New()
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: loanID, Status: model.LoanStatusSubmitted}, nil
		},
		UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
			assert.Equal(t, model.LoanStatusSubmitted, fromStatus)
			assert.Equal(t, model.LoanStatusApproved, toStatus)
			return &model.Loan{ID: loanID, Status: toStatus}, nil
		},
	}
	svc := NewLoanService(repo)

	loan, err := svc.Approve(context.Background(), loanID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusApproved, loan.Status)
}

func TestLoanService_Approve_NotSubmitted(t *testing.T) {
	for _, status := range []string{model.LoanStatusPending, model.LoanStatusApproved, model.LoanStatusDeclined} {
		t.Run(status, func(t *testing.T) {
			repo := &loanRepoFake{
				FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
					return &model.Loan{ID: id, Status: status}, nil
				},
				UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
					return nil, nil
				},
			}
			svc := NewLoanService(repo)

			_, err := svc.Approve(context.Background(), uuid.New())
			assert.ErrorIs(t, err, ErrLoanNotSubmitted)
		})
	}
}

func TestLoanService_Decline(t *testing.T) {
	loanID := uuid.New()
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: loanID, Status: model.LoanStatusSubmitted}, nil
		},
		UpdateStatusFn: func(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
			return &model.Loan{ID: loanID, Status: toStatus}, nil
		},
	}
	svc := NewLoanService(repo)

	loan, err := svc.Decline(context.Background(), loanID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusDeclined, loan.Status)
}

func TestLoanService_Delete_NotFound(t *testing.T) {
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) { return nil, nil },
	}
	svc := NewLoanService(repo)

	_, err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestLoanService_Delete(t *testing.T) {
	loanID := uuid.New()
	deleted := false
	repo := &loanRepoFake{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
			return &model.Loan{ID: loanID, Status: model.LoanStatusApproved}, nil
		},
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc := NewLoanService(repo)

	loan, err := svc.Delete(context.Background(), loanID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, loanID, loan.ID)
}

func TestLoanService_List_ClampsAndBuildsMeta(t *testing.T) {
	var gotPage, gotLimit int
	repo := &loanRepoFake{
		FindAllFn: func(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, int64, error) {
			gotPage, gotLimit = page, limit
			return []model.Loan{{ID: uuid.New()}}, 25, nil
		},
	}
	svc := NewLoanService(repo)

	loans, meta, err := svc.List(context.Background(), model.LoanFilters{}, 0, -5)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, model.PageMeta{Page: 1, Limit: 10, Total: 25, TotalPages: 3}, meta)
}

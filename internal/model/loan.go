package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	LoanStatusPending   = "PENDING"
	LoanStatusSubmitted = "SUBMITTED"
	LoanStatusApproved  = "APPROVED"
	LoanStatusDeclined  = "DECLINED"
)

// Loan represents a loan request and its position in the lifecycle:
// PENDING -> SUBMITTED (owner) -> APPROVED or DECLINED (admin).
// APPROVED and DECLINED are terminal.
type Loan struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Amount        float64   `json:"amount"`
	MonthlyIncome float64   `json:"monthly_income"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateLoanRequest is used for creating a new loan
type CreateLoanRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	MonthlyIncome float64 `json:"monthly_income" binding:"required,gt=0"`
}

// LoanFilters contains filter parameters for admin loan listing
type LoanFilters struct {
	Status *string
	UserID *uuid.UUID
}

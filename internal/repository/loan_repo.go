package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"microloan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LoanRepository defines operations for loan data
type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, int64, error)
	Count(ctx context.Context) (int64, error)
}

type loanRepository struct {
	db DB
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(db DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, user_id, amount, monthly_income, status, created_at, updated_at`

// Create inserts a new loan into the database
func (r *loanRepository) Create(ctx context.Context, l *model.Loan) error {
	sql := `INSERT INTO loans (id, user_id, amount, monthly_income, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, l.ID, l.UserID, l.Amount, l.MonthlyIncome, l.Status, l.CreatedAt, l.UpdatedAt).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// FindByID retrieves a loan by its ID
func (r *loanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Loan, error) {
	l := &model.Loan{}
	sql := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&l.ID, &l.UserID, &l.Amount, &l.MonthlyIncome, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find loan by ID: %w", err)
	}
	return l, nil
}

// UpdateStatus transitions a loan from fromStatus to toStatus. The expected
// prior status is part of the WHERE clause so two concurrent transitions on
// the same loan cannot both win; the loser sees nil, nil.
func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (*model.Loan, error) {
	l := &model.Loan{}
	sql := `UPDATE loans SET status = $1, updated_at = NOW()
            WHERE id = $2 AND status = $3
            RETURNING ` + loanColumns
	err := r.db.QueryRow(ctx, sql, toStatus, id, fromStatus).Scan(
		&l.ID, &l.UserID, &l.Amount, &l.MonthlyIncome, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Loan absent or not in the expected status
		}
		return nil, fmt.Errorf("failed to update loan status: %w", err)
	}
	return l, nil
}

// Delete removes a loan from the database
func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindAll retrieves one page of loans matching the filters plus the total
// matching count, in one transaction.
func (r *loanRepository) FindAll(ctx context.Context, filters model.LoanFilters, page, limit int) ([]model.Loan, int64, error) {
	where, args := buildLoanConditions(filters)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin loans listing tx: %w", err)
	}
	defer tx.Rollback(ctx)

	listSQL := fmt.Sprintf(`SELECT %s FROM loans%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		loanColumns, where, len(args)+1, len(args)+2)
	listArgs := append(append([]any{}, args...), limit, (page-1)*limit)

	rows, err := tx.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		var l model.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.Amount, &l.MonthlyIncome, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating loan rows: %w", err)
	}
	rows.Close()

	var total int64
	countSQL := `SELECT COUNT(*) FROM loans` + where
	if err := tx.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit loans listing tx: %w", err)
	}
	return loans, total, nil
}

// Count returns the total number of loans
func (r *loanRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count loans: %w", err)
	}
	return total, nil
}

func buildLoanConditions(filters model.LoanFilters) (string, []any) {
	var conditions []string
	args := []any{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *filters.UserID)
		argCount++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/expense/settle"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListByExpenseID retrieves all settlements of an expense
func (r *Repository) ListByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]*Settlement, error) {
	query := `
		SELECT id, expense_id, from_user_id, to_user_id, amount, is_paid, created_at
		FROM settlements
		WHERE expense_id = $1
		ORDER BY amount DESC, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		if err := rows.Scan(
			&s.ID,
			&s.ExpenseID,
			&s.FromUserID,
			&s.ToUserID,
			&s.Amount,
			&s.IsPaid,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, nil
}

// CreateFromDebts inserts one settlement row per computed debt in a single
// transaction and returns the inserted rows.
func (r *Repository) CreateFromDebts(ctx context.Context, expenseID uuid.UUID, debts []settle.Debt) ([]*Settlement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settlements (expense_id, from_user_id, to_user_id, amount, is_paid)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, expense_id, from_user_id, to_user_id, amount, is_paid, created_at
	`

	settlements := make([]*Settlement, 0, len(debts))
	for _, d := range debts {
		s := &Settlement{}
		err := tx.QueryRowContext(ctx, query, expenseID, d.FromUserID, d.ToUserID, d.Amount).Scan(
			&s.ID,
			&s.ExpenseID,
			&s.FromUserID,
			&s.ToUserID,
			&s.Amount,
			&s.IsPaid,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlements: %w", err)
	}

	return settlements, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Settlement, error) {
	query := `
		SELECT id, expense_id, from_user_id, to_user_id, amount, is_paid, created_at
		FROM settlements
		WHERE id = $1
	`

	s := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.ExpenseID,
		&s.FromUserID,
		&s.ToUserID,
		&s.Amount,
		&s.IsPaid,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return s, nil
}

// MarkPaid sets is_paid on a settlement
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID) (*Settlement, error) {
	query := `
		UPDATE settlements
		SET is_paid = true
		WHERE id = $1
		RETURNING id, expense_id, from_user_id, to_user_id, amount, is_paid, created_at
	`

	s := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.ExpenseID,
		&s.FromUserID,
		&s.ToUserID,
		&s.Amount,
		&s.IsPaid,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark settlement as paid: %w", err)
	}

	return s, nil
}

// CountUnpaidByExpenseID returns how many settlements of an expense are unpaid
func (r *Repository) CountUnpaidByExpenseID(ctx context.Context, expenseID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM settlements WHERE expense_id = $1 AND is_paid = false`

	var count int
	if err := r.db.QueryRowContext(ctx, query, expenseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unpaid settlements: %w", err)
	}
	return count, nil
}

package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository handles expense, item and assignment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithItems inserts an expense, its receipt items and their user
// assignments in a single transaction.
func (r *Repository) CreateWithItems(ctx context.Context, createdBy uuid.UUID, req *CreateExpenseRequest) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO expenses (group_id, created_by, description, total_amount, tax_amount, tip_amount, receipt_image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, group_id, created_by, description, total_amount, tax_amount, tip_amount, receipt_image_url, status, created_at
	`,
		req.GroupID,
		createdBy,
		req.Description,
		req.TotalAmount,
		req.TaxAmount,
		req.TipAmount,
		req.ReceiptImageURL,
		StatusPending,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.TotalAmount,
		&expense.TaxAmount,
		&expense.TipAmount,
		&expense.ReceiptImageURL,
		&expense.Status,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		var itemID uuid.UUID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO receipt_items (expense_id, item_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, expense.ID, item.ItemName, quantity, item.UnitPrice, item.TotalPrice).Scan(&itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to create receipt item: %w", err)
		}

		for _, userID := range item.AssignedUserIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO item_assignments (receipt_item_id, user_id)
				VALUES ($1, $2)
			`, itemID, userID); err != nil {
				return nil, fmt.Errorf("failed to create item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense creation: %w", err)
	}

	return expense, nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	query := `
		SELECT id, group_id, created_by, description, total_amount, tax_amount, tip_amount, receipt_image_url, status, created_at
		FROM expenses
		WHERE id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.TotalAmount,
		&expense.TaxAmount,
		&expense.TipAmount,
		&expense.ReceiptImageURL,
		&expense.Status,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetItems retrieves all receipt items of an expense with their assigned
// user IDs aggregated per item.
func (r *Repository) GetItems(ctx context.Context, expenseID uuid.UUID) ([]*ReceiptItem, error) {
	query := `
		SELECT ri.id, ri.expense_id, ri.item_name, ri.quantity, ri.unit_price, ri.total_price,
		       COALESCE(ARRAY_AGG(ia.user_id) FILTER (WHERE ia.user_id IS NOT NULL), '{}')
		FROM receipt_items ri
		LEFT JOIN item_assignments ia ON ia.receipt_item_id = ri.id
		WHERE ri.expense_id = $1
		GROUP BY ri.id, ri.expense_id, ri.item_name, ri.quantity, ri.unit_price, ri.total_price
		ORDER BY ri.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt items: %w", err)
	}
	defer rows.Close()

	var items []*ReceiptItem
	for rows.Next() {
		item := &ReceiptItem{}
		var assigned []string
		if err := rows.Scan(
			&item.ID,
			&item.ExpenseID,
			&item.ItemName,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			pq.Array(&assigned),
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}

		item.AssignedUserIDs = make([]uuid.UUID, 0, len(assigned))
		for _, raw := range assigned {
			userID, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse assigned user id: %w", err)
			}
			item.AssignedUserIDs = append(item.AssignedUserIDs, userID)
		}

		items = append(items, item)
	}

	return items, nil
}

// ListByGroupID retrieves expenses for a group, newest first, with the total
// count for pagination.
func (r *Repository) ListByGroupID(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT id, group_id, created_by, description, total_amount, tax_amount, tip_amount, receipt_image_url, status, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.CreatedBy,
			&expense.Description,
			&expense.TotalAmount,
			&expense.TaxAmount,
			&expense.TipAmount,
			&expense.ReceiptImageURL,
			&expense.Status,
			&expense.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// UpdateStatus sets the status of an expense
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status ExpenseStatus) error {
	query := `UPDATE expenses SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	return nil
}

// Delete removes an expense; items and assignments cascade in the schema
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

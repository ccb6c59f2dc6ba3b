package expense

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseStatus represents the lifecycle of an expense
type ExpenseStatus string

const (
	StatusPending ExpenseStatus = "pending"
	StatusSettled ExpenseStatus = "settled"
)

// Expense represents one scanned bill logged against a group
type Expense struct {
	ID              uuid.UUID     `json:"id"`
	GroupID         uuid.UUID     `json:"group_id"`
	CreatedBy       uuid.UUID     `json:"created_by"`
	Description     string        `json:"description"`
	TotalAmount     float64       `json:"total_amount"`
	TaxAmount       float64       `json:"tax_amount"`
	TipAmount       float64       `json:"tip_amount"`
	ReceiptImageURL *string       `json:"receipt_image_url,omitempty"`
	Status          ExpenseStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ReceiptItem represents one line item extracted from the receipt, together
// with the users charged for it. An item with no assigned users is excluded
// from all share calculations.
type ReceiptItem struct {
	ID              uuid.UUID   `json:"id"`
	ExpenseID       uuid.UUID   `json:"expense_id"`
	ItemName        string      `json:"item_name"`
	Quantity        int         `json:"quantity"`
	UnitPrice       float64     `json:"unit_price"`
	TotalPrice      float64     `json:"total_price"`
	AssignedUserIDs []uuid.UUID `json:"assigned_user_ids"`
}

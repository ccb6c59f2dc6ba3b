package expense

import (
	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/expense/settle"
)

// ReceiptItemInput represents one line item in an expense creation request
type ReceiptItemInput struct {
	ItemName        string      `json:"item_name" validate:"required"`
	Quantity        int         `json:"quantity,omitempty"`
	UnitPrice       float64     `json:"unit_price,omitempty"`
	TotalPrice      float64     `json:"total_price" validate:"gte=0"`
	AssignedUserIDs []uuid.UUID `json:"assigned_user_ids,omitempty"`
}

// CreateExpenseRequest represents the request body for creating an expense
type CreateExpenseRequest struct {
	GroupID         uuid.UUID          `json:"group_id" validate:"required"`
	Description     string             `json:"description,omitempty"`
	TotalAmount     float64            `json:"total_amount" validate:"gte=0"`
	TaxAmount       float64            `json:"tax_amount,omitempty" validate:"gte=0"`
	TipAmount       float64            `json:"tip_amount,omitempty" validate:"gte=0"`
	ReceiptImageURL *string            `json:"receipt_image_url,omitempty"`
	Items           []ReceiptItemInput `json:"items,omitempty"`
}

// ExpenseResponse represents the response for a single expense
type ExpenseResponse struct {
	ID              uuid.UUID     `json:"id"`
	GroupID         uuid.UUID     `json:"group_id"`
	CreatedBy       uuid.UUID     `json:"created_by"`
	Description     string        `json:"description"`
	TotalAmount     float64       `json:"total_amount"`
	TaxAmount       float64       `json:"tax_amount"`
	TipAmount       float64       `json:"tip_amount"`
	ReceiptImageURL *string       `json:"receipt_image_url,omitempty"`
	Status          ExpenseStatus `json:"status"`
	CreatedAt       string        `json:"created_at"`
}

// ReceiptItemResponse represents a line item with its assignments
type ReceiptItemResponse struct {
	ID              uuid.UUID   `json:"id"`
	ItemName        string      `json:"item_name"`
	Quantity        int         `json:"quantity"`
	UnitPrice       float64     `json:"unit_price"`
	TotalPrice      float64     `json:"total_price"`
	AssignedUserIDs []uuid.UUID `json:"assigned_user_ids"`
}

// ExpenseDetailResponse represents an expense with its items
type ExpenseDetailResponse struct {
	ExpenseResponse
	Items []*ReceiptItemResponse `json:"items"`
}

// UserShareResponse represents one participant's computed share
type UserShareResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	BaseShare float64   `json:"base_share"`
	TaxShare  float64   `json:"tax_share"`
	TipShare  float64   `json:"tip_share"`
	Total     float64   `json:"total"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		CreatedBy:       e.CreatedBy,
		Description:     e.Description,
		TotalAmount:     e.TotalAmount,
		TaxAmount:       e.TaxAmount,
		TipAmount:       e.TipAmount,
		ReceiptImageURL: e.ReceiptImageURL,
		Status:          e.Status,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a ReceiptItem model to a ReceiptItemResponse DTO
func (i *ReceiptItem) ToResponse() *ReceiptItemResponse {
	assigned := i.AssignedUserIDs
	if assigned == nil {
		assigned = []uuid.UUID{}
	}
	return &ReceiptItemResponse{
		ID:              i.ID,
		ItemName:        i.ItemName,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		TotalPrice:      i.TotalPrice,
		AssignedUserIDs: assigned,
	}
}

// SharesToResponse converts engine shares to response DTOs
func SharesToResponse(shares []settle.UserShare) []*UserShareResponse {
	out := make([]*UserShareResponse, len(shares))
	for i, s := range shares {
		out[i] = &UserShareResponse{
			UserID:    s.UserID,
			BaseShare: s.BaseShare,
			TaxShare:  s.TaxShare,
			TipShare:  s.TipShare,
			Total:     s.Total,
		}
	}
	return out
}

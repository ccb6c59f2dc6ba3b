package settlement

import "github.com/google/uuid"

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID         uuid.UUID `json:"id"`
	ExpenseID  uuid.UUID `json:"expense_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Amount     float64   `json:"amount"`
	IsPaid     bool      `json:"is_paid"`
	CreatedAt  string    `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:         s.ID,
		ExpenseID:  s.ExpenseID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		IsPaid:     s.IsPaid,
		CreatedAt:  s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

package settlement

import (
	"time"

	"github.com/google/uuid"
)

// Settlement represents one directed payment that clears part of an expense:
// FromUser pays ToUser the amount. The rows for an expense are only meaningful
// as a set; together they settle every participant's balance.
type Settlement struct {
	ID         uuid.UUID `json:"id"`
	ExpenseID  uuid.UUID `json:"expense_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Amount     float64   `json:"amount"`
	IsPaid     bool      `json:"is_paid"`
	CreatedAt  time.Time `json:"created_at"`
}

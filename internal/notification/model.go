package notification

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies what a notification points at
type EntityType string

const (
	EntityExpense    EntityType = "EXPENSE"
	EntitySettlement EntityType = "SETTLEMENT"
)

// Notification represents a notification in the system
type Notification struct {
	ID                uuid.UUID  `json:"id"`
	RecipientID       uuid.UUID  `json:"recipient_id"`
	Message           string     `json:"message"`
	IsRead            bool       `json:"is_read"`
	RelatedEntityType *string    `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uuid.UUID `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user profile. Identity and credentials live in the hosted
// auth provider; this row only mirrors profile data keyed by the auth user ID.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

package group

import "github.com/google/uuid"

// CreateGroupRequest represents the request body for creating a group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AddMemberRequest represents the request body for adding a group member
type AddMemberRequest struct {
	UserID uuid.UUID  `json:"user_id" validate:"required"`
	Role   MemberRole `json:"role,omitempty"`
}

// GroupResponse represents the response for a single group
type GroupResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt string    `json:"created_at"`
}

// MemberResponse represents a group member in responses
type MemberResponse struct {
	UserID      uuid.UUID  `json:"user_id"`
	Role        MemberRole `json:"role"`
	DisplayName string     `json:"display_name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	JoinedAt    string     `json:"joined_at"`
}

// GroupDetailResponse represents a group with its members
type GroupDetailResponse struct {
	GroupResponse
	Members []*MemberResponse `json:"members"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:      m.UserID,
		Role:        m.Role,
		DisplayName: m.DisplayName,
		AvatarURL:   m.AvatarURL,
		JoinedAt:    m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}

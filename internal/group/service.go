package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrNotMember         = errors.New("not a member of this group")
	ErrNotAdmin          = errors.New("only admins can perform this action")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrInvalidRole       = errors.New("role must be admin or member")
	ErrCannotRemoveOther = errors.New("only admins can remove other members")
)

// Service handles group business logic
type Service struct {
	repo *Repository
}

// NewService creates a new group service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a group and makes the creator its admin
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req *CreateGroupRequest) (*Group, error) {
	return s.repo.Create(ctx, req.Name, creatorID)
}

// ListForUser retrieves all groups the user belongs to
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// GetDetail retrieves a group with its members; the caller must be a member
func (s *Service) GetDetail(ctx context.Context, groupID, userID uuid.UUID) (*Group, []*Member, error) {
	if err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, nil, err
	}

	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if group == nil {
		return nil, nil, ErrGroupNotFound
	}

	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// AddMember adds a user to a group; only admins may do this
func (s *Service) AddMember(ctx context.Context, groupID, requesterID uuid.UUID, req *AddMemberRequest) (*Member, error) {
	requester, err := s.repo.GetMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.Role != RoleAdmin {
		return nil, ErrNotAdmin
	}

	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	return s.repo.AddMember(ctx, groupID, req.UserID, role)
}

// RemoveMember removes a user from a group. Admins can remove anyone; regular
// members can only remove themselves.
func (s *Service) RemoveMember(ctx context.Context, groupID, requesterID, memberUserID uuid.UUID) error {
	requester, err := s.repo.GetMember(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if requester == nil {
		return ErrNotMember
	}

	isAdmin := requester.Role == RoleAdmin
	isSelf := requesterID == memberUserID
	if !isAdmin && !isSelf {
		return ErrCannotRemoveOther
	}

	return s.repo.RemoveMember(ctx, groupID, memberUserID)
}

// RequireMember returns ErrNotMember unless the user belongs to the group.
// Other features use this for authorization before touching group data.
func (s *Service) RequireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotMember
	}
	return nil
}

package expense

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/expense/settle"
	"github.com/snapsplit/snapsplit/internal/group"
	"github.com/snapsplit/snapsplit/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNotMember           = errors.New("not a member of this group")
	ErrNotCreator          = errors.New("only the creator can delete this expense")
	ErrCannotDeleteSettled = errors.New("cannot delete a settled expense")
	ErrNegativeAmount      = errors.New("amounts cannot be negative")
)

// Service handles expense business logic
type Service struct {
	repo          *Repository
	groupService  *group.Service
	notifications *notification.Service
}

// NewService creates a new expense service
func NewService(repo *Repository, groupService *group.Service, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		groupService:  groupService,
		notifications: notifications,
	}
}

// Create logs a new expense with its items and assignments. The caller must
// be a member of the group; users named on items are notified.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateExpenseRequest) (*Expense, []*ReceiptItem, error) {
	if req.TotalAmount < 0 || req.TaxAmount < 0 || req.TipAmount < 0 {
		return nil, nil, ErrNegativeAmount
	}
	for _, item := range req.Items {
		if item.TotalPrice < 0 || item.UnitPrice < 0 {
			return nil, nil, ErrNegativeAmount
		}
	}

	if err := s.groupService.RequireMember(ctx, req.GroupID, userID); err != nil {
		if errors.Is(err, group.ErrNotMember) {
			return nil, nil, ErrNotMember
		}
		return nil, nil, err
	}

	expense, err := s.repo.CreateWithItems(ctx, userID, req)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repo.GetItems(ctx, expense.ID)
	if err != nil {
		return nil, nil, err
	}

	s.notifyAssignedUsers(ctx, expense, items)

	return expense, items, nil
}

// GetDetail retrieves an expense with its items; caller must be a group member
func (s *Service) GetDetail(ctx context.Context, expenseID, userID uuid.UUID) (*Expense, []*ReceiptItem, error) {
	expense, err := s.authorizedExpense(ctx, expenseID, userID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repo.GetItems(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}

	return expense, items, nil
}

// ComputeShares calculates each participant's proportional share of the
// expense from its stored items and assignments.
func (s *Service) ComputeShares(ctx context.Context, expenseID, userID uuid.UUID) ([]settle.UserShare, error) {
	expense, err := s.authorizedExpense(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	return settle.ComputeShares(toLineItems(items), expense.TaxAmount, expense.TipAmount)
}

// ListByGroup retrieves expenses of a group with pagination; caller must be a
// member.
func (s *Service) ListByGroup(ctx context.Context, groupID, userID uuid.UUID, page, perPage int) ([]*Expense, int, error) {
	if err := s.groupService.RequireMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, group.ErrNotMember) {
			return nil, 0, ErrNotMember
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// Delete removes a pending expense; only its creator may do this
func (s *Service) Delete(ctx context.Context, expenseID, userID uuid.UUID) error {
	expense, err := s.authorizedExpense(ctx, expenseID, userID)
	if err != nil {
		return err
	}

	if expense.CreatedBy != userID {
		return ErrNotCreator
	}
	if expense.Status == StatusSettled {
		return ErrCannotDeleteSettled
	}

	return s.repo.Delete(ctx, expenseID)
}

// MarkSettled flips an expense to settled once all its settlements are paid
func (s *Service) MarkSettled(ctx context.Context, expenseID uuid.UUID) error {
	return s.repo.UpdateStatus(ctx, expenseID, StatusSettled)
}

// GetForSettlement loads the expense and its items without a membership check,
// for callers that have already authorized the user.
func (s *Service) GetForSettlement(ctx context.Context, expenseID uuid.UUID) (*Expense, []*ReceiptItem, error) {
	expense, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if expense == nil {
		return nil, nil, ErrExpenseNotFound
	}

	items, err := s.repo.GetItems(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}

	return expense, items, nil
}

// RequireMember exposes the group membership check for the expense's group
func (s *Service) RequireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	if err := s.groupService.RequireMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, group.ErrNotMember) {
			return ErrNotMember
		}
		return err
	}
	return nil
}

// authorizedExpense loads the expense and verifies group membership
func (s *Service) authorizedExpense(ctx context.Context, expenseID, userID uuid.UUID) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	if err := s.groupService.RequireMember(ctx, expense.GroupID, userID); err != nil {
		if errors.Is(err, group.ErrNotMember) {
			return nil, ErrNotMember
		}
		return nil, err
	}

	return expense, nil
}

// notifyAssignedUsers notifies each distinct user named on an item, except the
// creator. Failures are logged, not surfaced: the expense is already saved.
func (s *Service) notifyAssignedUsers(ctx context.Context, expense *Expense, items []*ReceiptItem) {
	seen := make(map[uuid.UUID]bool)
	for _, item := range items {
		for _, userID := range item.AssignedUserIDs {
			if userID == expense.CreatedBy || seen[userID] {
				continue
			}
			seen[userID] = true

			if _, err := s.notifications.NotifyExpenseAdded(ctx, userID, expense.Description, expense.ID); err != nil {
				slog.Warn("failed to notify assigned user",
					"expense_id", expense.ID,
					"user_id", userID,
					"error", err,
				)
			}
		}
	}
}

// toLineItems converts stored receipt items to the engine's input shape
func toLineItems(items []*ReceiptItem) []settle.LineItem {
	lineItems := make([]settle.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = settle.LineItem{
			TotalPrice:      item.TotalPrice,
			AssignedUserIDs: item.AssignedUserIDs,
		}
	}
	return lineItems
}

package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser retrieves a user's notifications with pagination
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, userID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read; only the recipient may do this
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// NotifyExpenseAdded notifies a user that an expense names them on an item
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID uuid.UUID, description string, expenseID uuid.UUID) (*Notification, error) {
	message := "You were added to an expense"
	if description != "" {
		message = fmt.Sprintf("You were added to an expense: %s", description)
	}
	entityType := string(EntityExpense)
	return s.repo.Create(ctx, recipientID, message, &entityType, &expenseID)
}

// NotifySettlementCreated notifies a debtor that they owe a payment
func (s *Service) NotifySettlementCreated(ctx context.Context, recipientID uuid.UUID, amount float64, settlementID uuid.UUID) (*Notification, error) {
	message := fmt.Sprintf("You owe a payment of $%.2f", amount)
	entityType := string(EntitySettlement)
	return s.repo.Create(ctx, recipientID, message, &entityType, &settlementID)
}

// NotifySettlementPaid notifies a creditor that a payment was marked paid
func (s *Service) NotifySettlementPaid(ctx context.Context, recipientID uuid.UUID, amount float64, settlementID uuid.UUID) (*Notification, error) {
	message := fmt.Sprintf("A payment of $%.2f to you was marked as paid", amount)
	entityType := string(EntitySettlement)
	return s.repo.Create(ctx, recipientID, message, &entityType, &settlementID)
}

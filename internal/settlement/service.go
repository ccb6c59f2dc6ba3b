package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/expense"
	"github.com/snapsplit/snapsplit/internal/expense/settle"
	"github.com/snapsplit/snapsplit/internal/notification"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrNotInvolved        = errors.New("not involved in this settlement")
	ErrAlreadyPaid        = errors.New("settlement is already paid")
)

// Service handles settlement business logic
type Service struct {
	repo           *Repository
	expenseService *expense.Service
	notifications  *notification.Service
}

// NewService creates a new settlement service
func NewService(repo *Repository, expenseService *expense.Service, notifications *notification.Service) *Service {
	return &Service{
		repo:           repo,
		expenseService: expenseService,
		notifications:  notifications,
	}
}

// GetOrCompute returns the settlements of an expense, computing and persisting
// them on first access.
//
// Already-persisted rows are returned as-is (check-then-insert: best-effort
// protection against duplicate settlement sets, the caller side carries no
// further idempotency guarantee). Otherwise the full pipeline runs: stored
// items and assignments feed the share calculator, shares and the stated
// total feed balance construction with the expense creator as payer, and the
// debt simplifier produces the rows to persist.
func (s *Service) GetOrCompute(ctx context.Context, expenseID, userID uuid.UUID) ([]*Settlement, error) {
	exp, items, err := s.expenseService.GetForSettlement(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := s.expenseService.RequireMember(ctx, exp.GroupID, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	lineItems := make([]settle.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = settle.LineItem{
			TotalPrice:      item.TotalPrice,
			AssignedUserIDs: item.AssignedUserIDs,
		}
	}

	shares, err := settle.ComputeShares(lineItems, exp.TaxAmount, exp.TipAmount)
	if err != nil {
		return nil, err
	}

	balances, err := settle.ComputeBalances(shares, exp.CreatedBy, exp.TotalAmount)
	if err != nil {
		return nil, err
	}

	debts := settle.SimplifyDebts(balances)
	if len(debts) == 0 {
		// Everyone is already square; a valid terminal state, not an error.
		return []*Settlement{}, nil
	}

	settlements, err := s.repo.CreateFromDebts(ctx, expenseID, debts)
	if err != nil {
		return nil, err
	}

	for _, row := range settlements {
		if _, err := s.notifications.NotifySettlementCreated(ctx, row.FromUserID, row.Amount, row.ID); err != nil {
			slog.Warn("failed to notify debtor",
				"settlement_id", row.ID,
				"user_id", row.FromUserID,
				"error", err,
			)
		}
	}

	return settlements, nil
}

// MarkPaid marks a settlement as paid. Either party may do this; when the
// last settlement of an expense is paid, the expense flips to settled.
func (s *Service) MarkPaid(ctx context.Context, settlementID, userID uuid.UUID) (*Settlement, error) {
	row, err := s.repo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrSettlementNotFound
	}

	if userID != row.FromUserID && userID != row.ToUserID {
		return nil, ErrNotInvolved
	}
	if row.IsPaid {
		return nil, ErrAlreadyPaid
	}

	row, err = s.repo.MarkPaid(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrSettlementNotFound
	}

	if _, err := s.notifications.NotifySettlementPaid(ctx, row.ToUserID, row.Amount, row.ID); err != nil {
		slog.Warn("failed to notify creditor",
			"settlement_id", row.ID,
			"user_id", row.ToUserID,
			"error", err,
		)
	}

	unpaid, err := s.repo.CountUnpaidByExpenseID(ctx, row.ExpenseID)
	if err != nil {
		return nil, err
	}
	if unpaid == 0 {
		if err := s.expenseService.MarkSettled(ctx, row.ExpenseID); err != nil {
			return nil, err
		}
	}

	return row, nil
}

package settle

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// LineItem is a single receipt line with the users it was assigned to.
// An empty assignment set means nobody is charged for the item; its cost
// is excluded from all totals rather than split among the group.
type LineItem struct {
	TotalPrice      float64     `json:"total_price"`
	AssignedUserIDs []uuid.UUID `json:"assigned_user_ids"`
}

// UserShare is one participant's portion of an expense: their share of the
// raw item costs plus a proportional cut of tax and tip.
type UserShare struct {
	UserID    uuid.UUID `json:"user_id"`
	BaseShare float64   `json:"base_share"`
	TaxShare  float64   `json:"tax_share"`
	TipShare  float64   `json:"tip_share"`
	Total     float64   `json:"total"`
}

var (
	ErrNegativeAmount  = errors.New("amounts cannot be negative")
	ErrNonFiniteAmount = errors.New("amounts must be finite numbers")
)

// ComputeShares calculates each user's proportional share of an itemized bill.
//
// Each item's price is divided evenly among its assigned users. Tax and tip
// are then distributed proportionally to each user's share of the base item
// costs, not split evenly:
//
//	S_p     = sum(price_j / |assigned_j|) over items assigned to user p
//	Total_p = S_p + (S_p / sum(S_k)) * (tax + tip)
//
// If no item was ever assigned, tax and tip are left unallocated and the
// result is empty. Each output field is rounded to 2 decimals independently
// from its unrounded value, so Total may differ from the sum of the rounded
// parts by up to a cent.
func ComputeShares(items []LineItem, taxAmount, tipAmount float64) ([]UserShare, error) {
	if err := validateAmount(taxAmount); err != nil {
		return nil, err
	}
	if err := validateAmount(tipAmount); err != nil {
		return nil, err
	}

	// Accumulate each user's base share, keeping first-appearance order.
	baseShares := make(map[uuid.UUID]float64)
	var order []uuid.UUID

	for _, item := range items {
		if err := validateAmount(item.TotalPrice); err != nil {
			return nil, err
		}
		if len(item.AssignedUserIDs) == 0 {
			continue
		}

		perPerson := item.TotalPrice / float64(len(item.AssignedUserIDs))
		for _, uid := range item.AssignedUserIDs {
			if _, seen := baseShares[uid]; !seen {
				order = append(order, uid)
			}
			baseShares[uid] += perPerson
		}
	}

	var totalBase float64
	for _, base := range baseShares {
		totalBase += base
	}

	shares := make([]UserShare, 0, len(order))
	for _, uid := range order {
		base := baseShares[uid]

		proportion := 0.0
		if totalBase > 0 {
			proportion = base / totalBase
		}

		taxShare := taxAmount * proportion
		tipShare := tipAmount * proportion
		total := base + taxShare + tipShare

		shares = append(shares, UserShare{
			UserID:    uid,
			BaseShare: round2(base),
			TaxShare:  round2(taxShare),
			TipShare:  round2(tipShare),
			Total:     round2(total),
		})
	}

	return shares, nil
}

// validateAmount rejects negative and non-finite monetary inputs.
func validateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFiniteAmount
	}
	if v < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// round2 rounds a float to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

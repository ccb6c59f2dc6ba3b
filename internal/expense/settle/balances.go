package settle

import "github.com/google/uuid"

// ComputeBalances turns per-user share totals into a net balance map.
// Positive = the user is owed money, negative = the user owes money.
//
// Every user is debited their share total; the payer, who fronted the whole
// bill, is credited the stated totalAmount on top of any debit they incurred
// as a participant. The stated total is trusted as-is: any gap between it and
// the sum of shares ends up in the payer's balance.
func ComputeBalances(shares []UserShare, payerID uuid.UUID, totalAmount float64) (map[uuid.UUID]float64, error) {
	if err := validateAmount(totalAmount); err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]float64, len(shares)+1)

	for _, share := range shares {
		balances[share.UserID] -= share.Total
	}

	balances[payerID] += totalAmount

	return balances, nil
}

package settle

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Debt is one directed payment: FromUserID pays ToUserID the given amount.
type Debt struct {
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Amount     float64   `json:"amount"`
}

// settleEpsilon is the rounding tolerance: balances within a cent of zero are
// treated as already settled, and transfers of at most a cent are dropped.
const settleEpsilon = 0.01

type party struct {
	userID uuid.UUID
	amount float64
}

// SimplifyDebts reduces a net balance map to a small list of payments that
// clears every balance.
//
// Greedy heuristic: repeatedly match the largest remaining debtor with the
// largest remaining creditor and transfer the smaller of the two amounts.
// This keeps the transaction count low but is not guaranteed to be the true
// minimum for arbitrary balance sets. Residual imbalance below the epsilon is
// discarded as acceptable rounding loss.
//
// Output is deterministic: ties on amount break by user ID, so re-running on
// the same balances yields the same payments. Which same-amount party is
// matched first is an implementation detail callers should not rely on.
func SimplifyDebts(balances map[uuid.UUID]float64) []Debt {
	var creditors []party
	var debtors []party

	for uid, balance := range balances {
		if balance > settleEpsilon {
			creditors = append(creditors, party{userID: uid, amount: balance})
		} else if balance < -settleEpsilon {
			debtors = append(debtors, party{userID: uid, amount: -balance})
		}
	}

	sortByAmountDesc(creditors)
	sortByAmountDesc(debtors)

	var debts []Debt

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		transfer := round2(math.Min(debtors[i].amount, creditors[j].amount))

		if transfer > settleEpsilon {
			debts = append(debts, Debt{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     transfer,
			})
		}

		debtors[i].amount = round2(debtors[i].amount - transfer)
		creditors[j].amount = round2(creditors[j].amount - transfer)

		if debtors[i].amount < settleEpsilon {
			i++
		}
		if creditors[j].amount < settleEpsilon {
			j++
		}
	}

	return debts
}

// sortByAmountDesc orders parties by amount descending, user ID ascending on
// ties. Map iteration order is random, so the tie-break keeps results stable.
func sortByAmountDesc(parties []party) {
	sort.Slice(parties, func(a, b int) bool {
		if parties[a].amount != parties[b].amount {
			return parties[a].amount > parties[b].amount
		}
		return parties[a].userID.String() < parties[b].userID.String()
	})
}

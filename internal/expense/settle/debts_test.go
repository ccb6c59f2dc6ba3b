package settle

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestSimplifyDebtsTwoPerson(t *testing.T) {
	balances := map[uuid.UUID]float64{
		alice: 20.0,
		bob:   -20.0,
	}

	debts := SimplifyDebts(balances)
	if len(debts) != 1 {
		t.Fatalf("got %d debts, want 1", len(debts))
	}
	want := Debt{FromUserID: bob, ToUserID: alice, Amount: 20.0}
	if debts[0] != want {
		t.Errorf("debt = %+v, want %+v", debts[0], want)
	}
}

func TestSimplifyDebtsChainCollapse(t *testing.T) {
	// B nets to zero and must never appear; C pays A directly.
	balances := map[uuid.UUID]float64{
		alice:   20.0,
		bob:     0.0,
		charlie: -20.0,
	}

	debts := SimplifyDebts(balances)
	if len(debts) != 1 {
		t.Fatalf("got %d debts, want 1", len(debts))
	}
	want := Debt{FromUserID: charlie, ToUserID: alice, Amount: 20.0}
	if debts[0] != want {
		t.Errorf("debt = %+v, want %+v", debts[0], want)
	}
}

func TestSimplifyDebtsFourPeople(t *testing.T) {
	balances := map[uuid.UUID]float64{
		alice:   30.0,
		bob:     10.0,
		charlie: -25.0,
		diana:   -15.0,
	}

	debts := SimplifyDebts(balances)

	var transferred float64
	for _, d := range debts {
		transferred += d.Amount
	}
	if transferred != 40.0 {
		t.Errorf("total transferred = %v, want 40.0", transferred)
	}
	if len(debts) > 3 {
		t.Errorf("got %d debts, want at most 3", len(debts))
	}
}

func TestSimplifyDebtsAllSettled(t *testing.T) {
	tests := []struct {
		name     string
		balances map[uuid.UUID]float64
	}{
		{
			name:     "exact zeros",
			balances: map[uuid.UUID]float64{alice: 0.0, bob: 0.0},
		},
		{
			name:     "within epsilon",
			balances: map[uuid.UUID]float64{alice: 0.009, bob: -0.009},
		},
		{
			name:     "empty",
			balances: map[uuid.UUID]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if debts := SimplifyDebts(tt.balances); len(debts) != 0 {
				t.Errorf("got %d debts, want 0", len(debts))
			}
		})
	}
}

func TestSimplifyDebtsSettlesAllBalances(t *testing.T) {
	balances := map[uuid.UUID]float64{
		alice:   42.37,
		bob:     -13.12,
		charlie: -20.25,
		diana:   -9.0,
	}

	debts := SimplifyDebts(balances)

	// Applying every payment must drive each balance to within a cent of zero.
	remaining := make(map[uuid.UUID]float64, len(balances))
	for uid, b := range balances {
		remaining[uid] = b
	}
	for _, d := range debts {
		remaining[d.FromUserID] += d.Amount
		remaining[d.ToUserID] -= d.Amount
	}

	for uid, b := range remaining {
		if math.Abs(b) > 0.01 {
			t.Errorf("user %s remaining balance = %v, want within 0.01 of zero", uid, b)
		}
	}
}

func TestSimplifyDebtsDeterministic(t *testing.T) {
	// Equal-magnitude parties plus random map iteration order: the tie-break
	// must make repeated runs identical.
	balances := map[uuid.UUID]float64{
		alice:   15.0,
		bob:     15.0,
		charlie: -15.0,
		diana:   -15.0,
	}

	first := SimplifyDebts(balances)
	for i := 0; i < 10; i++ {
		if got := SimplifyDebts(balances); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced %+v, first run produced %+v", i, got, first)
		}
	}
}

func TestSimplifyDebtsDropsResidual(t *testing.T) {
	// Imbalance smaller than the epsilon is discarded, not paid or reported.
	balances := map[uuid.UUID]float64{
		alice: 10.005,
		bob:   -10.0,
	}

	debts := SimplifyDebts(balances)
	if len(debts) != 1 {
		t.Fatalf("got %d debts, want 1", len(debts))
	}
	if debts[0].Amount != 10.0 {
		t.Errorf("amount = %v, want 10.0", debts[0].Amount)
	}
}

func TestSharesToDebtsEndToEnd(t *testing.T) {
	// Full pipeline: itemized bill -> shares -> balances -> payments.
	items := []LineItem{
		{TotalPrice: 24.0, AssignedUserIDs: []uuid.UUID{alice, bob}},
		{TotalPrice: 18.0, AssignedUserIDs: []uuid.UUID{charlie}},
	}

	shares, err := ComputeShares(items, 4.2, 6.3)
	if err != nil {
		t.Fatalf("ComputeShares() error = %v", err)
	}

	balances, err := ComputeBalances(shares, alice, 52.5)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	debts := SimplifyDebts(balances)

	for _, d := range debts {
		if d.FromUserID == alice {
			t.Errorf("payer should not owe anyone, got %+v", d)
		}
		if d.ToUserID != alice {
			t.Errorf("all payments should flow to the payer, got %+v", d)
		}
		if d.Amount <= 0 {
			t.Errorf("non-positive payment %+v", d)
		}
	}

	remaining := make(map[uuid.UUID]float64, len(balances))
	for uid, b := range balances {
		remaining[uid] = b
	}
	for _, d := range debts {
		remaining[d.FromUserID] += d.Amount
		remaining[d.ToUserID] -= d.Amount
	}
	for uid, b := range remaining {
		if math.Abs(b) > 0.02 {
			t.Errorf("user %s remaining balance = %v after settling", uid, b)
		}
	}
}

package settle

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

var (
	alice   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	bob     = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	charlie = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	diana   = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

func shareFor(t *testing.T, shares []UserShare, uid uuid.UUID) UserShare {
	t.Helper()
	for _, s := range shares {
		if s.UserID == uid {
			return s
		}
	}
	t.Fatalf("no share for user %s", uid)
	return UserShare{}
}

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name      string
		items     []LineItem
		taxAmount float64
		tipAmount float64
		validate  func(t *testing.T, shares []UserShare)
	}{
		{
			name: "even split two people",
			items: []LineItem{
				{TotalPrice: 20.0, AssignedUserIDs: []uuid.UUID{alice, bob}},
			},
			validate: func(t *testing.T, shares []UserShare) {
				if len(shares) != 2 {
					t.Fatalf("got %d shares, want 2", len(shares))
				}
				for _, s := range shares {
					if s.Total != 10.0 {
						t.Errorf("user %s total = %v, want 10.0", s.UserID, s.Total)
					}
				}
			},
		},
		{
			name: "uneven items",
			items: []LineItem{
				{TotalPrice: 30.0, AssignedUserIDs: []uuid.UUID{alice}},
				{TotalPrice: 10.0, AssignedUserIDs: []uuid.UUID{bob}},
			},
			validate: func(t *testing.T, shares []UserShare) {
				if got := shareFor(t, shares, alice).Total; got != 30.0 {
					t.Errorf("alice total = %v, want 30.0", got)
				}
				if got := shareFor(t, shares, bob).Total; got != 10.0 {
					t.Errorf("bob total = %v, want 10.0", got)
				}
			},
		},
		{
			name: "proportional tax",
			items: []LineItem{
				{TotalPrice: 30.0, AssignedUserIDs: []uuid.UUID{alice}},
				{TotalPrice: 10.0, AssignedUserIDs: []uuid.UUID{bob}},
			},
			taxAmount: 8.0,
			validate: func(t *testing.T, shares []UserShare) {
				// alice: 30/40 * 8 = 6.0 tax, total 36.0
				// bob: 10/40 * 8 = 2.0 tax, total 12.0
				a := shareFor(t, shares, alice)
				if a.TaxShare != 6.0 || a.Total != 36.0 {
					t.Errorf("alice tax/total = %v/%v, want 6.0/36.0", a.TaxShare, a.Total)
				}
				b := shareFor(t, shares, bob)
				if b.TaxShare != 2.0 || b.Total != 12.0 {
					t.Errorf("bob tax/total = %v/%v, want 2.0/12.0", b.TaxShare, b.Total)
				}
			},
		},
		{
			name: "proportional tax and tip",
			items: []LineItem{
				{TotalPrice: 20.0, AssignedUserIDs: []uuid.UUID{alice}},
				{TotalPrice: 20.0, AssignedUserIDs: []uuid.UUID{bob}},
			},
			taxAmount: 4.0,
			tipAmount: 6.0,
			validate: func(t *testing.T, shares []UserShare) {
				// Even base shares: each carries half the 10.0 overhead.
				for _, s := range shares {
					if s.Total != 25.0 {
						t.Errorf("user %s total = %v, want 25.0", s.UserID, s.Total)
					}
				}
			},
		},
		{
			name: "shared item three ways",
			items: []LineItem{
				{TotalPrice: 30.0, AssignedUserIDs: []uuid.UUID{alice, bob, charlie}},
			},
			validate: func(t *testing.T, shares []UserShare) {
				if len(shares) != 3 {
					t.Fatalf("got %d shares, want 3", len(shares))
				}
				for _, s := range shares {
					if s.Total != 10.0 {
						t.Errorf("user %s total = %v, want 10.0", s.UserID, s.Total)
					}
				}
			},
		},
		{
			name: "unassigned item dropped",
			items: []LineItem{
				{TotalPrice: 99.0, AssignedUserIDs: nil},
				{TotalPrice: 10.0, AssignedUserIDs: []uuid.UUID{alice}},
			},
			taxAmount: 2.0,
			validate: func(t *testing.T, shares []UserShare) {
				if len(shares) != 1 {
					t.Fatalf("got %d shares, want 1", len(shares))
				}
				// Alice carries the full overhead; the unassigned 99.0
				// contributes nothing to her base.
				a := shareFor(t, shares, alice)
				if a.BaseShare != 10.0 || a.TaxShare != 2.0 || a.Total != 12.0 {
					t.Errorf("alice = %+v, want base 10.0, tax 2.0, total 12.0", a)
				}
			},
		},
		{
			name: "no assignments at all",
			items: []LineItem{
				{TotalPrice: 20.0, AssignedUserIDs: nil},
			},
			taxAmount: 3.0,
			tipAmount: 2.0,
			validate: func(t *testing.T, shares []UserShare) {
				// Tax and tip stay unallocated rather than erroring.
				if len(shares) != 0 {
					t.Fatalf("got %d shares, want 0", len(shares))
				}
			},
		},
		{
			name:      "empty items with overhead",
			items:     nil,
			taxAmount: 5.0,
			tipAmount: 1.0,
			validate: func(t *testing.T, shares []UserShare) {
				if len(shares) != 0 {
					t.Fatalf("got %d shares, want 0", len(shares))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares(tt.items, tt.taxAmount, tt.tipAmount)
			if err != nil {
				t.Fatalf("ComputeShares() error = %v", err)
			}
			tt.validate(t, shares)
		})
	}
}

func TestComputeSharesConservation(t *testing.T) {
	items := []LineItem{
		{TotalPrice: 12.5, AssignedUserIDs: []uuid.UUID{alice}},
		{TotalPrice: 16.0, AssignedUserIDs: []uuid.UUID{alice, bob}},
		{TotalPrice: 9.99, AssignedUserIDs: []uuid.UUID{bob, charlie, diana}},
		{TotalPrice: 7.25, AssignedUserIDs: nil}, // dropped
		{TotalPrice: 3.33, AssignedUserIDs: []uuid.UUID{charlie}},
	}
	taxAmount, tipAmount := 3.47, 8.0

	shares, err := ComputeShares(items, taxAmount, tipAmount)
	if err != nil {
		t.Fatalf("ComputeShares() error = %v", err)
	}

	assignedBase := 12.5 + 16.0 + 9.99 + 3.33
	want := assignedBase + taxAmount + tipAmount

	var sum float64
	for _, s := range shares {
		sum += s.Total
	}

	tolerance := 0.01 * float64(len(shares))
	if math.Abs(sum-want) > tolerance {
		t.Errorf("sum of totals = %v, want %v (±%v)", sum, want, tolerance)
	}
}

func TestComputeSharesRoundsFieldsIndependently(t *testing.T) {
	// Each field is rounded from its unrounded value, so the rounded total may
	// differ from the sum of the rounded parts by up to a cent.
	items := []LineItem{
		{TotalPrice: 1.004, AssignedUserIDs: []uuid.UUID{alice}},
	}
	shares, err := ComputeShares(items, 1.004, 0)
	if err != nil {
		t.Fatalf("ComputeShares() error = %v", err)
	}

	a := shareFor(t, shares, alice)
	if a.BaseShare != 1.0 || a.TaxShare != 1.0 {
		t.Errorf("base/tax = %v/%v, want 1.0/1.0", a.BaseShare, a.TaxShare)
	}
	if a.Total != 2.01 {
		t.Errorf("total = %v, want 2.01 (rounded from 2.008, not from rounded parts)", a.Total)
	}
}

func TestComputeSharesValidation(t *testing.T) {
	tests := []struct {
		name      string
		items     []LineItem
		taxAmount float64
		tipAmount float64
		wantErr   error
	}{
		{
			name:    "negative item price",
			items:   []LineItem{{TotalPrice: -5.0, AssignedUserIDs: []uuid.UUID{alice}}},
			wantErr: ErrNegativeAmount,
		},
		{
			name:      "negative tax",
			taxAmount: -1.0,
			wantErr:   ErrNegativeAmount,
		},
		{
			name:      "negative tip",
			tipAmount: -0.5,
			wantErr:   ErrNegativeAmount,
		},
		{
			name:      "NaN tax",
			taxAmount: math.NaN(),
			wantErr:   ErrNonFiniteAmount,
		},
		{
			name:    "infinite price",
			items:   []LineItem{{TotalPrice: math.Inf(1), AssignedUserIDs: []uuid.UUID{alice}}},
			wantErr: ErrNonFiniteAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeShares(tt.items, tt.taxAmount, tt.tipAmount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ComputeShares() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeBalances(t *testing.T) {
	shares := []UserShare{
		{UserID: alice, Total: 30.0},
		{UserID: bob, Total: 10.0},
	}

	balances, err := ComputeBalances(shares, alice, 40.0)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	// Alice paid 40, owes 30: net +10. Bob owes 10: net -10.
	if balances[alice] != 10.0 {
		t.Errorf("alice balance = %v, want 10.0", balances[alice])
	}
	if balances[bob] != -10.0 {
		t.Errorf("bob balance = %v, want -10.0", balances[bob])
	}
}

func TestComputeBalancesPayerNotParticipant(t *testing.T) {
	shares := []UserShare{
		{UserID: alice, Total: 20.0},
		{UserID: bob, Total: 20.0},
	}

	balances, err := ComputeBalances(shares, charlie, 40.0)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	if balances[charlie] != 40.0 {
		t.Errorf("charlie balance = %v, want 40.0", balances[charlie])
	}
	if balances[alice] != -20.0 || balances[bob] != -20.0 {
		t.Errorf("alice/bob balances = %v/%v, want -20.0/-20.0", balances[alice], balances[bob])
	}
}

func TestComputeBalancesConservation(t *testing.T) {
	shares := []UserShare{
		{UserID: alice, Total: 17.43},
		{UserID: bob, Total: 9.21},
		{UserID: charlie, Total: 13.36},
	}

	balances, err := ComputeBalances(shares, bob, 40.0)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	var sum float64
	for _, b := range balances {
		sum += b
	}
	if math.Abs(sum) > 0.01 {
		t.Errorf("sum of balances = %v, want ~0", sum)
	}
}

func TestComputeBalancesTrustsStatedTotal(t *testing.T) {
	// The stated total is not reconciled against the shares; any gap lands in
	// the payer's balance as drift.
	shares := []UserShare{
		{UserID: alice, Total: 20.0},
		{UserID: bob, Total: 20.0},
	}

	balances, err := ComputeBalances(shares, alice, 41.0)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	if balances[alice] != 21.0 {
		t.Errorf("alice balance = %v, want 21.0", balances[alice])
	}
}

func TestComputeBalancesValidation(t *testing.T) {
	if _, err := ComputeBalances(nil, alice, -1.0); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative total error = %v, want %v", err, ErrNegativeAmount)
	}
	if _, err := ComputeBalances(nil, alice, math.NaN()); !errors.Is(err, ErrNonFiniteAmount) {
		t.Errorf("NaN total error = %v, want %v", err, ErrNonFiniteAmount)
	}
}

package dashboard

import (
	"testing"

	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

func TestValidCRNumbersSkipsInvalid(t *testing.T) {
	known := validCRNumbers([]finance.CashRequisition{
		{CRNumber: "CR-2024-0001", Status: finance.CRStatusCompleted},
		{CRNumber: "CR-2024-0002", Status: finance.CRStatusRejected},
		{CRNumber: "  ", Status: finance.CRStatusApproved},
	})
	if _, ok := known["CR-2024-0001"]; !ok {
		t.Fatalf("expected completed CR in the known set")
	}
	if _, ok := known["CR-2024-0002"]; ok {
		t.Fatalf("rejected CR must not be in the known set")
	}
	if len(known) != 1 {
		t.Fatalf("expected 1 known number got %d", len(known))
	}
}

func TestCRLinkedMatching(t *testing.T) {
	known := map[string]struct{}{"CR-2024-0007": {}}
	cases := []struct {
		name string
		txn  finance.Transaction
		want bool
	}{
		{"exact reference", finance.Transaction{ReferenceNumber: "CR-2024-0007"}, true},
		{"cr prefix reference", finance.Transaction{ReferenceNumber: "CR-9999-1111"}, true},
		{"pattern in description", finance.Transaction{Description: "payout for CR-2024-0031 fuel"}, true},
		{"short digits in description", finance.Transaction{Description: "see CR-24-31"}, false},
		{"unrelated reference", finance.Transaction{ReferenceNumber: "INV-0042"}, false},
		{"no reference", finance.Transaction{}, false},
	}
	for _, tc := range cases {
		if got := crLinked(tc.txn, known); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestCountableExpenseTxn(t *testing.T) {
	known := map[string]struct{}{}
	if countableExpenseTxn(finance.Transaction{Type: finance.TypeIncome}, known) {
		t.Fatalf("income must not count as expense")
	}
	if countableExpenseTxn(finance.Transaction{Type: finance.TypeExpense, Status: finance.TxnStatusCancelled}, known) {
		t.Fatalf("cancelled expense must not count")
	}
	if !countableExpenseTxn(finance.Transaction{Type: finance.TypeExpense}, known) {
		t.Fatalf("plain expense must count")
	}
}

func TestCRBaseAmountPrefersPrecomputed(t *testing.T) {
	rates := fx.RateTable{"UGX": 3700}
	precomputed := 42.0
	got, err := crBaseAmount(finance.CashRequisition{TotalCost: 370000, Currency: "UGX", AmountBase: &precomputed}, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected precomputed 42 got %.2f", got)
	}

	got, err = crBaseAmount(finance.CashRequisition{TotalCost: 370000, Currency: "UGX"}, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected converted 100 got %.2f", got)
	}

	if _, err := crBaseAmount(finance.CashRequisition{TotalCost: 10, Currency: "KES"}, rates); err == nil {
		t.Fatalf("expected unknown currency error")
	}
}

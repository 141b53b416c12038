package dashboard

import (
	"testing"
	"time"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
)

func TestRevenueEligibility(t *testing.T) {
	cases := []struct {
		name string
		b    booking.Booking
		want bool
	}{
		{"completed", booking.Booking{Status: booking.StatusCompleted}, true},
		{"in progress", booking.Booking{Status: booking.StatusInProgress}, true},
		{"in-progress dashed", booking.Booking{Status: booking.StatusInProgressDash}, true},
		{"confirmed paid", booking.Booking{Status: booking.StatusConfirmed, AmountPaid: 1}, true},
		{"confirmed unpaid", booking.Booking{Status: booking.StatusConfirmed, AmountPaid: 0}, false},
		{"pending", booking.Booking{Status: booking.StatusPending, AmountPaid: 500}, false},
		{"cancelled", booking.Booking{Status: booking.StatusCancelled, AmountPaid: 500}, false},
		{"active", booking.Booking{Status: booking.StatusActive, AmountPaid: 500}, false},
	}
	for _, tc := range cases {
		if got := revenueEligible(tc.b); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestActiveStatusMatchesBothSpellings(t *testing.T) {
	for _, s := range []booking.Status{booking.StatusConfirmed, booking.StatusActive, booking.StatusInProgress, booking.StatusInProgressDash} {
		if !activeStatus(s) {
			t.Fatalf("expected %q to count as active", s)
		}
	}
	for _, s := range []booking.Status{booking.StatusPending, booking.StatusCompleted, booking.StatusCancelled} {
		if activeStatus(s) {
			t.Fatalf("expected %q to not count as active", s)
		}
	}
}

func TestValidExpenseCR(t *testing.T) {
	completed := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		cr   finance.CashRequisition
		want bool
	}{
		{"approved", finance.CashRequisition{Status: finance.CRStatusApproved}, true},
		{"completed", finance.CashRequisition{Status: finance.CRStatusCompleted}, true},
		{"resolved", finance.CashRequisition{Status: finance.CRStatusResolved}, true},
		{"pending no date", finance.CashRequisition{Status: finance.CRStatusPending}, false},
		{"pending with date", finance.CashRequisition{Status: finance.CRStatusPending, DateCompleted: &completed}, true},
		{"rejected with date", finance.CashRequisition{Status: finance.CRStatusRejected, DateCompleted: &completed}, false},
		{"declined", finance.CashRequisition{Status: finance.CRStatusDeclined}, false},
		{"cancelled with date", finance.CashRequisition{Status: finance.CRStatusCancelled, DateCompleted: &completed}, false},
		{"soft deleted", finance.CashRequisition{Status: finance.CRStatusApproved, Deleted: true}, false},
	}
	for _, tc := range cases {
		if got := validExpenseCR(tc.cr); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestClassifyCategoryFirstMatchWins(t *testing.T) {
	cases := map[string]string{
		"Fuel top-up":           CategoryFleetSupplies,
		"vehicle spare parts":   CategoryFleetSupplies,
		"Office stationery":     CategoryAdminCosts,
		"Murchison park fees":   CategorySafariExpense,
		"petty cash float":      CategoryPettyCash,
		"misc":                  CategoryOperating,
		"":                      CategoryOperating,
		"FLEET fuel and admin":  CategoryFleetSupplies, // fleet rule ordered before admin
	}
	for raw, want := range cases {
		if got := classifyCategory(raw); got != want {
			t.Fatalf("classifyCategory(%q): expected %q got %q", raw, want, got)
		}
	}
}

func TestClassifyCapacityFallbackChain(t *testing.T) {
	cases := map[string]CapacityClass{
		"7 seater":      CapacitySevenSeater,
		"Large SUV":     CapacitySevenSeater,
		"suv":           CapacitySevenSeater,
		"5-seater":      CapacityFiveSeater,
		"Medium sedan":  CapacityFiveSeater,
		"minibus":       CapacityOther,
		"":              CapacityOther,
		"7 or 5 seater": CapacitySevenSeater, // seven-seater rules checked first
	}
	for raw, want := range cases {
		if got := classifyCapacity(raw); got != want {
			t.Fatalf("classifyCapacity(%q): expected %q got %q", raw, want, got)
		}
	}
}

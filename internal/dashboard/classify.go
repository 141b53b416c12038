package dashboard

import (
	"strings"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
)

// revenueEligible implements the revenue recognition rule: a booking counts
// iff it is completed or in progress, or confirmed with any payment taken.
// Eligibility is a step function at payment > 0, not a weighting.
func revenueEligible(b booking.Booking) bool {
	switch b.Status {
	case booking.StatusCompleted, booking.StatusInProgress, booking.StatusInProgressDash:
		return true
	case booking.StatusConfirmed:
		return b.AmountPaid > 0
	}
	return false
}

// activeStatus matches the active-bookings KPI statuses, including both
// historical spellings of the in-progress state.
func activeStatus(s booking.Status) bool {
	switch s {
	case booking.StatusConfirmed, booking.StatusActive, booking.StatusInProgress, booking.StatusInProgressDash:
		return true
	}
	return false
}

// validExpenseCR decides whether a cash requisition is a realized expense.
// Rejection always wins: a completion date on a rejected CR does not
// resurrect it.
func validExpenseCR(cr finance.CashRequisition) bool {
	if cr.Deleted {
		return false
	}
	switch cr.Status {
	case finance.CRStatusRejected, finance.CRStatusCancelled, finance.CRStatusDeclined:
		return false
	}
	if cr.DateCompleted != nil && !cr.DateCompleted.IsZero() {
		return true
	}
	switch cr.Status {
	case finance.CRStatusCompleted, finance.CRStatusApproved, finance.CRStatusResolved:
		return true
	}
	return false
}

// Canonical expense buckets.
const (
	CategoryFleetSupplies = "Fleet Supplies"
	CategoryAdminCosts    = "Admin Costs"
	CategorySafariExpense = "Safari Expense"
	CategoryPettyCash     = "Petty Cash"
	CategoryOperating     = "Operating Expense"
)

type keywordRule struct {
	canonical string
	keywords  []string
}

// categoryRules is the ordered keyword table for expense categories. First
// match wins; anything unmatched lands in Operating Expense.
var categoryRules = []keywordRule{
	{CategoryFleetSupplies, []string{"fleet", "fuel", "vehicle", "tyre", "tire", "spare", "garage", "service"}},
	{CategoryAdminCosts, []string{"admin", "office", "salary", "stationery", "licence", "license"}},
	{CategorySafariExpense, []string{"safari", "park", "tour", "guide", "accommodation"}},
	{CategoryPettyCash, []string{"petty"}},
}

// classifyCategory normalises a free-text expense category.
func classifyCategory(raw string) string {
	lowered := strings.ToLower(raw)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.canonical
			}
		}
	}
	return CategoryOperating
}

// CapacityClass is the normalised seating-size bucket of a vehicle.
type CapacityClass string

const (
	CapacitySevenSeater CapacityClass = "7 Seater"
	CapacityFiveSeater  CapacityClass = "5 Seater"
	CapacityOther       CapacityClass = "Other"
)

type capacityRule struct {
	class    CapacityClass
	keywords []string
}

// capacityRules is the ordered fallback chain for raw capacity strings. The
// seven-seater keywords are checked before the five-seater ones, so e.g.
// "7.5 tonne" classifies as seven seater rather than falling through.
var capacityRules = []capacityRule{
	{CapacitySevenSeater, []string{"7", "large", "suv"}},
	{CapacityFiveSeater, []string{"5", "medium", "sedan"}},
}

// classifyCapacity normalises a vehicle's free-text capacity field.
func classifyCapacity(raw string) CapacityClass {
	lowered := strings.ToLower(raw)
	for _, rule := range capacityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.class
			}
		}
	}
	return CapacityOther
}

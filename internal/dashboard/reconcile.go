package dashboard

import (
	"regexp"
	"strings"

	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

// Expenses are recorded twice: once as a structured cash requisition and
// again as a ledger transaction written when the requisition is paid out.
// Summing both double-counts, so a transaction recognised as the payout
// record of an already-counted CR is excluded from the transaction sum.

// crNumberPattern matches a requisition number mentioned in free text. The
// match is deliberately permissive to catch manual bookkeeping entries that
// reference a requisition informally; it is a known source of
// reconciliation drift (false positives on passing mentions) and is kept
// as-is rather than tightened.
var crNumberPattern = regexp.MustCompile(`CR-\d{4}-\d{4}`)

// validCRNumbers collects the cr_number values of every requisition that
// passes the expense rule, across the whole snapshot. Linking is resolved
// against the full set so a windowed transaction still matches a CR counted
// in another period.
func validCRNumbers(crs []finance.CashRequisition) map[string]struct{} {
	known := make(map[string]struct{}, len(crs))
	for _, cr := range crs {
		if !validExpenseCR(cr) {
			continue
		}
		number := strings.TrimSpace(cr.CRNumber)
		if number == "" {
			continue
		}
		known[number] = struct{}{}
	}
	return known
}

// crLinked reports whether a transaction is the payout record of a counted
// requisition: an exact reference match, any reference carrying the CR-
// prefix, or a requisition number mentioned in the description.
func crLinked(t finance.Transaction, known map[string]struct{}) bool {
	ref := strings.TrimSpace(t.ReferenceNumber)
	if ref != "" {
		if _, ok := known[ref]; ok {
			return true
		}
		if strings.HasPrefix(ref, "CR-") {
			return true
		}
	}
	return crNumberPattern.MatchString(t.Description)
}

// countableExpenseTxn filters ledger entries for the expense sum: expense
// type, not cancelled, not CR-linked.
func countableExpenseTxn(t finance.Transaction, known map[string]struct{}) bool {
	if t.Type != finance.TypeExpense {
		return false
	}
	if t.Status == finance.TxnStatusCancelled {
		return false
	}
	return !crLinked(t, known)
}

// crBaseAmount resolves a requisition's expense amount in the base
// currency, preferring the precomputed base amount written at approval
// time over a fresh conversion of the raw cost.
func crBaseAmount(cr finance.CashRequisition, rates fx.RateTable) (float64, error) {
	if cr.AmountBase != nil {
		return *cr.AmountBase, nil
	}
	return rates.ToBase(cr.TotalCost, cr.Currency)
}

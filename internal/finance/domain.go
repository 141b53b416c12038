package finance

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes ledger entry directions.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// TransactionStatus for ledger entries. Anything other than cancelled counts.
type TransactionStatus string

const (
	TxnStatusPosted    TransactionStatus = "posted"
	TxnStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a free-form ledger entry recorded by bookkeeping staff.
// ReferenceNumber and Description may informally reference a cash
// requisition; the dashboard reconciler interprets those references.
type Transaction struct {
	ID              uuid.UUID
	Type            TransactionType
	Status          TransactionStatus
	Amount          float64
	Currency        string
	Category        string
	Description     string
	ReferenceNumber string
	TransactionDate time.Time
	CreatedAt       time.Time
}

// RequisitionStatus enumerates cash requisition lifecycle states.
type RequisitionStatus string

const (
	CRStatusPending   RequisitionStatus = "Pending"
	CRStatusApproved  RequisitionStatus = "Approved"
	CRStatusCompleted RequisitionStatus = "Completed"
	CRStatusResolved  RequisitionStatus = "Resolved"
	CRStatusRejected  RequisitionStatus = "Rejected"
	CRStatusDeclined  RequisitionStatus = "Declined"
	CRStatusCancelled RequisitionStatus = "Cancelled"
)

// CashRequisition is a structured expense-approval record. AmountBase, when
// set, is the precomputed base-currency amount written at approval time and
// takes precedence over converting TotalCost.
type CashRequisition struct {
	ID              uuid.UUID
	CRNumber        string
	TotalCost       float64
	Currency        string
	AmountBase      *float64
	Status          RequisitionStatus
	ExpenseCategory string
	DateCompleted   *time.Time
	Deleted         bool
	CreatedAt       time.Time
}

package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status enumerates booking lifecycle states. The upstream mobile store has
// written the in-progress state with two spellings over time; both are live
// data and both must be recognised.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusConfirmed       Status = "Confirmed"
	StatusActive          Status = "Active"
	StatusInProgress      Status = "In Progress"
	StatusInProgressDash  Status = "In-Progress"
	StatusCompleted       Status = "Completed"
	StatusCancelled       Status = "Cancelled"
)

// Booking model. AmountPaid <= TotalAmount is expected upstream but not
// guaranteed; consumers must tolerate violations.
type Booking struct {
	ID          uuid.UUID
	VehicleID   *uuid.UUID
	ClientID    *uuid.UUID
	UserID      *uuid.UUID
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	AmountPaid  float64
	TotalAmount float64
	Currency    string
	CreatedAt   time.Time
}

// SafariTrip model. Price and expense legs are recorded in both USD and the
// local currency; profit is always derived from the USD leg.
type SafariTrip struct {
	ID                 uuid.UUID
	VehicleID          *uuid.UUID
	StartDate          time.Time
	EndDate            time.Time
	PriceUSD           float64
	PriceLocal         float64
	ExpensesUSD        float64
	ExpensesLocal      float64
	VehicleHireCostUSD float64
	CreatedAt          time.Time
}

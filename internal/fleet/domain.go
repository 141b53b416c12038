package fleet

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus enumerates vehicle states. A vehicle carries exactly one
// status at a time.
type VehicleStatus string

const (
	StatusAvailable    VehicleStatus = "available"
	StatusBooked       VehicleStatus = "booked"
	StatusRented       VehicleStatus = "rented"
	StatusMaintenance  VehicleStatus = "maintenance"
	StatusOutOfService VehicleStatus = "out_of_service"
)

// Vehicle model. Capacity is free text as entered by operations staff and is
// normalised into a capacity class only inside the dashboard engine.
type Vehicle struct {
	ID        uuid.UUID
	Plate     string
	Make      string
	Model     string
	Capacity  string
	Status    VehicleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repair model. Repairs are part of the fleet dataset the dashboard accepts
// but no KPI currently derives from them.
type Repair struct {
	ID          uuid.UUID
	VehicleID   uuid.UUID
	Description string
	Cost        float64
	Currency    string
	RepairedAt  time.Time
	CreatedAt   time.Time
}

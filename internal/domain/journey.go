package domain

import "time"

// JourneyType represents the kind of trip a driver publishes.
type JourneyType string

const (
	JourneyTypeCarpool JourneyType = "CARPOOL"
	JourneyTypePackage JourneyType = "PACKAGE"
)

// JourneyStatus represents the current status of a journey.
type JourneyStatus string

const (
	JourneyStatusPending   JourneyStatus = "PENDING"
	JourneyStatusCancelled JourneyStatus = "CANCELLED"
	JourneyStatusCompleted JourneyStatus = "COMPLETED"
)

// Location is a named geographic point.
type Location struct {
	Name string
	Lat  float64
	Lng  float64
}

// Journey represents a published trip or shipment offer.
// AvailableSeats and PricePerSeat are only meaningful for CARPOOL journeys;
// PACKAGE journeys carry neither.
type Journey struct {
	ID                 string
	DriverID           string
	VehicleID          string
	Type               JourneyType
	Status             JourneyStatus
	Origin             Location
	Destination        Location
	DepartureTime      time.Time
	AvailableSeats     int
	PricePerSeat       float64
	AcceptedProposalID string
	CreatedAt          time.Time
}

// IsTerminal reports whether the journey status can no longer change.
func (s JourneyStatus) IsTerminal() bool {
	return s == JourneyStatusCancelled || s == JourneyStatusCompleted
}

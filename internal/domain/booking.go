package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// JourneySnapshot is an immutable copy of journey fields captured when a
// booking is created. It records what the rider reserved and survives later
// edits to the journey itself.
type JourneySnapshot struct {
	DepartureTime time.Time
	Type          JourneyType
	Origin        string
	Destination   string
}

// Booking represents a rider's claim against a journey, either seats on a
// carpool or the cargo slot of a package run.
type Booking struct {
	ID         string
	RiderID    string
	JourneyID  string
	SeatCount  int // zero for package bookings
	IsShipping bool
	Status     BookingStatus
	Journey    JourneySnapshot
	CreatedAt  time.Time
}

// IsActive reports whether the booking still counts against the journey.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

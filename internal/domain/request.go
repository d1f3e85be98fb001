package domain

import "time"

// RequestStatus represents the current status of a journey request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusOffered   RequestStatus = "OFFERED"
	RequestStatusMatched   RequestStatus = "MATCHED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
	RequestStatusClosed    RequestStatus = "CLOSED"
)

// PackageSpec describes the cargo of a package-shipping request.
type PackageSpec struct {
	WeightKg float64
	LengthCm float64
	WidthCm  float64
	HeightCm float64
}

// JourneyRequest represents a rider's open call for a trip or shipment,
// awaiting driver proposals.
type JourneyRequest struct {
	ID             string
	RequesterID    string
	Type           JourneyType
	Origin         Location
	Destination    Location
	RequestedTime  time.Time
	RequestedSeats int // carpool requests only
	Package        *PackageSpec
	ProposedPrice  float64
	Status         RequestStatus
	CreatedAt      time.Time
}

// AcceptsProposals reports whether the request is still open to new offers.
func (s RequestStatus) AcceptsProposals() bool {
	return s == RequestStatusPending || s == RequestStatusOffered
}

package domain

import "time"

// ProposalStatus represents the current status of a proposal.
type ProposalStatus string

const (
	ProposalStatusSent      ProposalStatus = "SENT"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusRejected  ProposalStatus = "REJECTED"
	ProposalStatusCancelled ProposalStatus = "CANCELLED"
)

// Proposal represents a driver's priced offer against a journey request.
type Proposal struct {
	ID           string
	RequestID    string
	DriverID     string
	VehicleID    string
	Status       ProposalStatus
	PriceOffered float64
	CreatedAt    time.Time
}

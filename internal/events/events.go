package events

import "time"

// Type identifies a domain event emitted by the reservation engine.
type Type string

const (
	TypeBookingCreated   Type = "booking_created"
	TypeBookingCancelled Type = "booking_cancelled"
	TypeJourneyCancelled Type = "journey_cancelled"
	TypeJourneyCompleted Type = "journey_completed"
	TypeProposalReceived Type = "proposal_received"
)

// Event is a fire-and-forget notification addressed to one or more users.
// Delivery and ordering are owned by the downstream notifier, not by the
// reservation engine.
type Event struct {
	UserIDs   []string  `json:"users_id"`
	JourneyID string    `json:"journey_id,omitempty"`
	Type      Type      `json:"type"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

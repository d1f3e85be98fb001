package events

import (
	"context"
	"log"
)

// Notifier delivers domain events to the notification fan-out. Emit is
// fire-and-forget: callers ignore delivery failures.
type Notifier interface {
	Emit(ctx context.Context, event Event) error
}

// LogNotifier writes events to the process log. Used in development and as
// a fallback when no broker is configured.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Emit logs the event.
func (n *LogNotifier) Emit(ctx context.Context, event Event) error {
	log.Printf("[EVENT] type=%s journey=%s recipients=%v reason=%q",
		event.Type, event.JourneyID, event.UserIDs, event.Reason)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)

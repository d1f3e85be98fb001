package domain

import "time"

// User represents a rider or driver in the system.
type User struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}

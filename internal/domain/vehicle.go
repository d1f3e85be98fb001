package domain

import "time"

// Vehicle represents a driver's registered vehicle. Capacity is the number
// of passenger seats; the reservation engine reads it but never mutates it.
type Vehicle struct {
	ID        string
	DriverID  string
	Plate     string
	Model     string
	Capacity  int
	CreatedAt time.Time
}

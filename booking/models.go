package booking

import "time"

type ServiceKind string

const (
	ServiceSalon ServiceKind = "salon"
	ServiceHome  ServiceKind = "home"
)

// Booking mirrors the bookings table. Price is the snapshot taken at creation.
type Booking struct {
	ID              int64
	ClientAccountID int64
	ProfileID       int64
	Date            time.Time
	Time            string
	ServiceKind     ServiceKind
	Price           float64
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Event is one immutable row of a booking's status timeline.
type Event struct {
	ID             int64
	BookingID      int64
	PreviousStatus Status
	NextStatus     Status
	ActorAccountID *int64
	CreatedAt      time.Time
}

// CreateParams enumerates the inputs of a booking request.
type CreateParams struct {
	ClientAccountID int64
	ProfileID       int64
	Date            time.Time
	Time            string
	ServiceKind     ServiceKind
	// PriceOverride replaces the profile-derived price. Only trusted internal
	// callers set it; the gateway never does.
	PriceOverride *float64
}

// TransitionParams describes a status change requested by ActorAccountID.
type TransitionParams struct {
	BookingID      int64
	NextStatus     Status
	ActorAccountID *int64
}

package profile

import "time"

// Profile mirrors the profiles table. Image is stored and returned verbatim.
type Profile struct {
	ID             int64
	OwnerAccountID int64
	DisplayName    string
	Styles         string
	SalonPrice     float64
	HomePrice      float64
	Availability   string
	Location       string
	Image          []byte
	ImageType      string
	Rating         float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UpsertParams enumerates the fields written by a profile save.
type UpsertParams struct {
	OwnerAccountID int64
	DisplayName    string
	Styles         string
	SalonPrice     float64
	HomePrice      float64
	Availability   string
	Location       string
	Image          []byte
	ImageType      string
}

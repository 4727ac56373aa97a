package httpapi

import (
	"time"

	"stylebook/auth"
	"stylebook/booking"
	"stylebook/profile"
	"stylebook/review"
)

type accountResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

// profileResponse carries the image as base64, which encoding/json does for []byte.
type profileResponse struct {
	ID             int64   `json:"id"`
	OwnerAccountID int64   `json:"ownerAccountId"`
	DisplayName    string  `json:"displayName"`
	Styles         string  `json:"styles"`
	SalonPrice     float64 `json:"salonPrice"`
	HomePrice      float64 `json:"homePrice"`
	Availability   string  `json:"availability"`
	Location       string  `json:"location"`
	Image          []byte  `json:"image,omitempty"`
	ImageType      string  `json:"imageType,omitempty"`
	Rating         float64 `json:"rating"`
	UpdatedAt      string  `json:"updatedAt,omitempty"`
}

type bookingResponse struct {
	ID              int64   `json:"id"`
	ClientAccountID int64   `json:"clientAccountId"`
	ProfileID       int64   `json:"profileId"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	ServiceKind     string  `json:"serviceKind"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt,omitempty"`
}

type eventResponse struct {
	PreviousStatus string `json:"previousStatus,omitempty"`
	NextStatus     string `json:"nextStatus"`
	ActorAccountID *int64 `json:"actorAccountId,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

type reviewResponse struct {
	ID              int64  `json:"id"`
	ProfileID       int64  `json:"profileId"`
	ClientAccountID int64  `json:"clientAccountId"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment"`
	CreatedAt       string `json:"createdAt,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toAccountResponse(a auth.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		CreatedAt: formatTime(a.CreatedAt),
	}
}

func toProfileResponse(p profile.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		OwnerAccountID: p.OwnerAccountID,
		DisplayName:    p.DisplayName,
		Styles:         p.Styles,
		SalonPrice:     p.SalonPrice,
		HomePrice:      p.HomePrice,
		Availability:   p.Availability,
		Location:       p.Location,
		Image:          p.Image,
		ImageType:      p.ImageType,
		Rating:         p.Rating,
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
}

func toBookingResponse(b booking.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		ClientAccountID: b.ClientAccountID,
		ProfileID:       b.ProfileID,
		Date:            b.Date.Format(time.DateOnly),
		Time:            b.Time,
		ServiceKind:     string(b.ServiceKind),
		Price:           b.Price,
		Status:          string(b.Status),
		CreatedAt:       formatTime(b.CreatedAt),
	}
}

func toEventResponse(e booking.Event) eventResponse {
	return eventResponse{
		PreviousStatus: string(e.PreviousStatus),
		NextStatus:     string(e.NextStatus),
		ActorAccountID: e.ActorAccountID,
		CreatedAt:      formatTime(e.CreatedAt),
	}
}

func toReviewResponse(r review.Review) reviewResponse {
	return reviewResponse{
		ID:              r.ID,
		ProfileID:       r.ProfileID,
		ClientAccountID: r.ClientAccountID,
		Rating:          r.Rating,
		Comment:         r.Comment,
		CreatedAt:       formatTime(r.CreatedAt),
	}
}

func mapItems[T, R any](in []T, conv func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, conv(v))
	}
	return out
}

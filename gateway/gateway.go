// Package gateway is the access-controlled facade the presentation shell calls.
// It resolves the caller from a session token, enforces role rules, and maps
// every store failure onto a Kind before returning.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"stylebook/auth"
	"stylebook/booking"
	"stylebook/profile"
	"stylebook/review"
)

// Credentials is the credential store as seen by the gateway.
type Credentials interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.Account, error)
	Authenticate(ctx context.Context, req auth.LoginRequest) (auth.Account, error)
	IssueToken(account auth.Account) (string, error)
	VerifyToken(token string) (int64, auth.Role, error)
}

type Profiles interface {
	Upsert(ctx context.Context, params profile.UpsertParams) (int64, error)
	List(ctx context.Context, locationFilter string) ([]profile.Profile, error)
	Get(ctx context.Context, id int64) (profile.Profile, error)
	GetByOwner(ctx context.Context, ownerAccountID int64) (profile.Profile, error)
}

type Bookings interface {
	Create(ctx context.Context, params booking.CreateParams) (int64, error)
	Get(ctx context.Context, id int64) (booking.Booking, error)
	ListForClient(ctx context.Context, clientAccountID int64) ([]booking.Booking, error)
	ListForProfile(ctx context.Context, profileID int64) ([]booking.Booking, error)
	Transition(ctx context.Context, params booking.TransitionParams) error
	HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error)
	Events(ctx context.Context, bookingID int64) ([]booking.Event, error)
}

type Reviews interface {
	Add(ctx context.Context, params review.AddParams) (int64, error)
	AverageRating(ctx context.Context, profileID int64) (float64, error)
	ListForProfile(ctx context.Context, profileID int64) ([]review.Review, error)
}

// Principal is the authenticated caller.
type Principal struct {
	AccountID int64
	Role      auth.Role
}

// Session is returned by a successful Authenticate.
type Session struct {
	Token   string
	Account auth.Account
}

// ProfileInput is a provider's profile save request. A zero OwnerAccountID
// means the caller's own account.
type ProfileInput struct {
	OwnerAccountID int64
	DisplayName    string
	Styles         string
	SalonPrice     float64
	HomePrice      float64
	Availability   string
	Location       string
	Image          []byte
}

// BookingInput is a client's reservation request. Date is YYYY-MM-DD and Time is HH:MM.
type BookingInput struct {
	ProfileID   int64
	Date        string
	Time        string
	ServiceKind string
}

type Gateway struct {
	credentials Credentials
	profiles    Profiles
	bookings    Bookings
	reviews     Reviews
}

func New(credentials Credentials, profiles Profiles, bookings Bookings, reviews Reviews) *Gateway {
	return &Gateway{
		credentials: credentials,
		profiles:    profiles,
		bookings:    bookings,
		reviews:     reviews,
	}
}

// Register creates an account. It needs no session.
func (g *Gateway) Register(ctx context.Context, username, password, role string) (auth.Account, error) {
	account, err := g.credentials.Register(ctx, auth.RegisterRequest{
		Username: username,
		Password: password,
		Role:     auth.Role(role),
	})
	if err != nil {
		return auth.Account{}, classify("register", err)
	}
	return account, nil
}

// Authenticate verifies credentials and opens a session.
func (g *Gateway) Authenticate(ctx context.Context, username, password string) (Session, error) {
	account, err := g.credentials.Authenticate(ctx, auth.LoginRequest{Username: username, Password: password})
	if err != nil {
		return Session{}, classify("authenticate", err)
	}
	token, err := g.credentials.IssueToken(account)
	if err != nil {
		return Session{}, classify("authenticate", err)
	}
	return Session{Token: token, Account: account}, nil
}

// Whoami resolves a token to its principal.
func (g *Gateway) Whoami(token string) (Principal, error) {
	return g.principal(token)
}

func (g *Gateway) principal(token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrNotAuthenticated
	}
	id, role, err := g.credentials.VerifyToken(token)
	if err != nil {
		return Principal{}, fail(KindNotAuthenticated, err)
	}
	return Principal{AccountID: id, Role: role}, nil
}

func (g *Gateway) requireRole(token string, role auth.Role) (Principal, error) {
	p, err := g.principal(token)
	if err != nil {
		return Principal{}, err
	}
	if p.Role != role {
		return Principal{}, fail(KindForbidden, fmt.Errorf("requires %s role", role))
	}
	return p, nil
}

// UpsertProfile saves the caller's provider profile, replacing any previous one.
func (g *Gateway) UpsertProfile(ctx context.Context, token string, in ProfileInput) (int64, error) {
	p, err := g.requireRole(token, auth.RoleProvider)
	if err != nil {
		return 0, err
	}
	owner := in.OwnerAccountID
	if owner == 0 {
		owner = p.AccountID
	}
	if owner != p.AccountID {
		return 0, fail(KindForbidden, errors.New("profile belongs to another account"))
	}

	imageType, err := checkImage(in.Image)
	if err != nil {
		return 0, err
	}

	id, err := g.profiles.Upsert(ctx, profile.UpsertParams{
		OwnerAccountID: owner,
		DisplayName:    in.DisplayName,
		Styles:         in.Styles,
		SalonPrice:     in.SalonPrice,
		HomePrice:      in.HomePrice,
		Availability:   in.Availability,
		Location:       in.Location,
		Image:          in.Image,
		ImageType:      imageType,
	})
	if err != nil {
		return 0, classify("upsert profile", err)
	}
	return id, nil
}

// MyProfile returns the provider caller's own profile.
func (g *Gateway) MyProfile(ctx context.Context, token string) (profile.Profile, error) {
	p, err := g.requireRole(token, auth.RoleProvider)
	if err != nil {
		return profile.Profile{}, err
	}
	prof, err := g.profiles.GetByOwner(ctx, p.AccountID)
	if err != nil {
		return profile.Profile{}, classify("my profile", err)
	}
	return prof, nil
}

func (g *Gateway) ListProfiles(ctx context.Context, token, locationFilter string) ([]profile.Profile, error) {
	if _, err := g.principal(token); err != nil {
		return nil, err
	}
	profiles, err := g.profiles.List(ctx, locationFilter)
	if err != nil {
		return nil, classify("list profiles", err)
	}
	return profiles, nil
}

func (g *Gateway) GetProfile(ctx context.Context, token string, id int64) (profile.Profile, error) {
	if _, err := g.principal(token); err != nil {
		return profile.Profile{}, err
	}
	prof, err := g.profiles.Get(ctx, id)
	if err != nil {
		return profile.Profile{}, classify("get profile", err)
	}
	return prof, nil
}

// CreateBooking reserves a slot for the client caller. The price is always
// derived from the profile at booking time.
func (g *Gateway) CreateBooking(ctx context.Context, token string, in BookingInput) (int64, error) {
	p, err := g.requireRole(token, auth.RoleClient)
	if err != nil {
		return 0, err
	}

	kind, err := booking.ParseServiceKind(in.ServiceKind)
	if err != nil {
		return 0, classify("create booking", err)
	}
	date, clock, err := booking.ParseSchedule(in.Date, in.Time)
	if err != nil {
		return 0, classify("create booking", err)
	}

	id, err := g.bookings.Create(ctx, booking.CreateParams{
		ClientAccountID: p.AccountID,
		ProfileID:       in.ProfileID,
		Date:            date,
		Time:            clock,
		ServiceKind:     kind,
	})
	if err != nil {
		return 0, classify("create booking", err)
	}
	return id, nil
}

// ListBookingsForClient lists a client's bookings. Clients may only list their
// own; a zero clientAccountID means the caller.
func (g *Gateway) ListBookingsForClient(ctx context.Context, token string, clientAccountID int64) ([]booking.Booking, error) {
	p, err := g.requireRole(token, auth.RoleClient)
	if err != nil {
		return nil, err
	}
	if clientAccountID == 0 {
		clientAccountID = p.AccountID
	}
	if clientAccountID != p.AccountID {
		return nil, fail(KindForbidden, errors.New("bookings belong to another client"))
	}

	bookings, err := g.bookings.ListForClient(ctx, clientAccountID)
	if err != nil {
		return nil, classify("list client bookings", err)
	}
	return bookings, nil
}

// ListBookingsForProfile lists bookings against a profile for its owning provider.
func (g *Gateway) ListBookingsForProfile(ctx context.Context, token string, profileID int64) ([]booking.Booking, error) {
	p, err := g.requireRole(token, auth.RoleProvider)
	if err != nil {
		return nil, err
	}
	if err := g.requireProfileOwner(ctx, p, profileID, "list profile bookings"); err != nil {
		return nil, err
	}

	bookings, err := g.bookings.ListForProfile(ctx, profileID)
	if err != nil {
		return nil, classify("list profile bookings", err)
	}
	return bookings, nil
}

// TransitionStatus moves a booking through its lifecycle. Only the provider
// owning the booked profile may do so.
func (g *Gateway) TransitionStatus(ctx context.Context, token string, bookingID int64, newStatus string) error {
	p, err := g.requireRole(token, auth.RoleProvider)
	if err != nil {
		return err
	}

	next, err := booking.ParseStatus(newStatus)
	if err != nil {
		return classify("transition booking", err)
	}

	b, err := g.bookings.Get(ctx, bookingID)
	if err != nil {
		return classify("transition booking", err)
	}
	if err := g.requireProfileOwner(ctx, p, b.ProfileID, "transition booking"); err != nil {
		return err
	}

	actor := p.AccountID
	if err := g.bookings.Transition(ctx, booking.TransitionParams{
		BookingID:      bookingID,
		NextStatus:     next,
		ActorAccountID: &actor,
	}); err != nil {
		return classify("transition booking", err)
	}
	return nil
}

// BookingHistory returns the status timeline of a booking to its client or to
// the provider owning the booked profile.
func (g *Gateway) BookingHistory(ctx context.Context, token string, bookingID int64) ([]booking.Event, error) {
	p, err := g.principal(token)
	if err != nil {
		return nil, err
	}

	b, err := g.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, classify("booking history", err)
	}
	switch p.Role {
	case auth.RoleClient:
		if b.ClientAccountID != p.AccountID {
			return nil, fail(KindForbidden, errors.New("booking belongs to another client"))
		}
	case auth.RoleProvider:
		if err := g.requireProfileOwner(ctx, p, b.ProfileID, "booking history"); err != nil {
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}

	events, err := g.bookings.Events(ctx, bookingID)
	if err != nil {
		return nil, classify("booking history", err)
	}
	return events, nil
}

// AddReview records feedback from a client who holds a completed booking on the profile.
func (g *Gateway) AddReview(ctx context.Context, token string, profileID int64, rating int, comment string) (int64, error) {
	p, err := g.requireRole(token, auth.RoleClient)
	if err != nil {
		return 0, err
	}
	if rating < review.MinRating || rating > review.MaxRating {
		return 0, fail(KindInvalidRating, fmt.Errorf("rating %d outside %d..%d", rating, review.MinRating, review.MaxRating))
	}

	if _, err := g.profiles.Get(ctx, profileID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return 0, fail(KindProfileNotFound, err)
		}
		return 0, classify("add review", err)
	}

	completed, err := g.bookings.HasCompleted(ctx, p.AccountID, profileID)
	if err != nil {
		return 0, classify("add review", err)
	}
	if !completed {
		return 0, fail(KindForbidden, errors.New("no completed booking with this provider"))
	}

	id, err := g.reviews.Add(ctx, review.AddParams{
		ProfileID:       profileID,
		ClientAccountID: p.AccountID,
		Rating:          rating,
		Comment:         comment,
	})
	if err != nil {
		return 0, classify("add review", err)
	}
	return id, nil
}

// AverageRating is recomputed from stored reviews on every call.
func (g *Gateway) AverageRating(ctx context.Context, token string, profileID int64) (float64, error) {
	if _, err := g.principal(token); err != nil {
		return 0, err
	}
	avg, err := g.reviews.AverageRating(ctx, profileID)
	if err != nil {
		return 0, classify("average rating", err)
	}
	return avg, nil
}

func (g *Gateway) ListReviews(ctx context.Context, token string, profileID int64) ([]review.Review, error) {
	if _, err := g.principal(token); err != nil {
		return nil, err
	}
	reviews, err := g.reviews.ListForProfile(ctx, profileID)
	if err != nil {
		return nil, classify("list reviews", err)
	}
	return reviews, nil
}

func (g *Gateway) requireProfileOwner(ctx context.Context, p Principal, profileID int64, op string) error {
	prof, err := g.profiles.Get(ctx, profileID)
	if err != nil {
		return classify(op, err)
	}
	if prof.OwnerAccountID != p.AccountID {
		return fail(KindForbidden, errors.New("profile belongs to another provider"))
	}
	return nil
}

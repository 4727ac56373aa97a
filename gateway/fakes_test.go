package gateway

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stylebook/auth"
	"stylebook/booking"
	"stylebook/profile"
	"stylebook/review"
)

// memAccounts implements auth.Repository in memory.
type memAccounts struct {
	mu     sync.Mutex
	byName map[string]auth.Account
	byID   map[int64]auth.Account
	nextID int64
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byName: map[string]auth.Account{}, byID: map[int64]auth.Account{}, nextID: 1}
}

func (m *memAccounts) CreateAccount(ctx context.Context, params auth.CreateAccountParams) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[params.Username]; ok {
		return auth.Account{}, auth.ErrDuplicateUsername
	}
	a := auth.Account{ID: m.nextID, Username: params.Username, PasswordHash: params.PasswordHash, Role: params.Role, CreatedAt: time.Now()}
	m.nextID++
	m.byName[a.Username] = a
	m.byID[a.ID] = a
	return a, nil
}

func (m *memAccounts) GetAccountByUsername(ctx context.Context, username string) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byName[username]
	if !ok {
		return auth.Account{}, auth.ErrAccountNotFound
	}
	return a, nil
}

func (m *memAccounts) GetAccountByID(ctx context.Context, id int64) (auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return auth.Account{}, auth.ErrAccountNotFound
	}
	return a, nil
}

// memProfiles implements profile.Store with upsert-by-owner semantics.
type memProfiles struct {
	accounts *memAccounts
	rows     map[int64]profile.Profile
	nextID   int64
	calls    int
	failWith error
}

func newMemProfiles(accounts *memAccounts) *memProfiles {
	return &memProfiles{accounts: accounts, rows: map[int64]profile.Profile{}, nextID: 1}
}

func (m *memProfiles) Upsert(ctx context.Context, params profile.UpsertParams) (int64, error) {
	m.calls++
	if m.failWith != nil {
		return 0, m.failWith
	}
	owner, err := m.accounts.GetAccountByID(ctx, params.OwnerAccountID)
	if err != nil || owner.Role != auth.RoleProvider {
		return 0, profile.ErrOwnerNotProvider
	}
	p := profile.Profile{
		OwnerAccountID: params.OwnerAccountID,
		DisplayName:    params.DisplayName,
		Styles:         params.Styles,
		SalonPrice:     params.SalonPrice,
		HomePrice:      params.HomePrice,
		Availability:   params.Availability,
		Location:       params.Location,
		Image:          params.Image,
		ImageType:      params.ImageType,
	}
	for id, existing := range m.rows {
		if existing.OwnerAccountID == params.OwnerAccountID {
			p.ID = id
			m.rows[id] = p
			return id, nil
		}
	}
	p.ID = m.nextID
	m.nextID++
	m.rows[p.ID] = p
	return p.ID, nil
}

func (m *memProfiles) List(ctx context.Context, locationFilter string) ([]profile.Profile, error) {
	m.calls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []profile.Profile{}
	for _, p := range m.rows {
		if locationFilter == "" || strings.Contains(strings.ToLower(p.Location), strings.ToLower(locationFilter)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProfiles) Get(ctx context.Context, id int64) (profile.Profile, error) {
	m.calls++
	if m.failWith != nil {
		return profile.Profile{}, m.failWith
	}
	p, ok := m.rows[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) GetByOwner(ctx context.Context, ownerAccountID int64) (profile.Profile, error) {
	m.calls++
	for _, p := range m.rows {
		if p.OwnerAccountID == ownerAccountID {
			return p, nil
		}
	}
	return profile.Profile{}, profile.ErrNotFound
}

// memLedger implements booking.Ledger, reading prices from memProfiles.
type memLedger struct {
	profiles *memProfiles
	rows     map[int64]booking.Booking
	events   map[int64][]booking.Event
	nextID   int64
	calls    int
}

func newMemLedger(profiles *memProfiles) *memLedger {
	return &memLedger{profiles: profiles, rows: map[int64]booking.Booking{}, events: map[int64][]booking.Event{}, nextID: 1}
}

func (m *memLedger) Create(ctx context.Context, params booking.CreateParams) (int64, error) {
	m.calls++
	p, ok := m.profiles.rows[params.ProfileID]
	if !ok {
		return 0, booking.ErrProfileNotFound
	}
	price, err := booking.PriceFor(params.ServiceKind, p.SalonPrice, p.HomePrice)
	if err != nil {
		return 0, err
	}
	if params.PriceOverride != nil {
		price = *params.PriceOverride
	}
	b := booking.Booking{
		ID:              m.nextID,
		ClientAccountID: params.ClientAccountID,
		ProfileID:       params.ProfileID,
		Date:            params.Date,
		Time:            params.Time,
		ServiceKind:     params.ServiceKind,
		Price:           price,
		Status:          booking.InitialStatus(),
	}
	m.nextID++
	m.rows[b.ID] = b
	actor := params.ClientAccountID
	m.events[b.ID] = append(m.events[b.ID], booking.Event{BookingID: b.ID, NextStatus: b.Status, ActorAccountID: &actor})
	return b.ID, nil
}

func (m *memLedger) Get(ctx context.Context, id int64) (booking.Booking, error) {
	m.calls++
	b, ok := m.rows[id]
	if !ok {
		return booking.Booking{}, booking.ErrNotFound
	}
	return b, nil
}

func (m *memLedger) ListForClient(ctx context.Context, clientAccountID int64) ([]booking.Booking, error) {
	m.calls++
	return m.filter(func(b booking.Booking) bool { return b.ClientAccountID == clientAccountID }), nil
}

func (m *memLedger) ListForProfile(ctx context.Context, profileID int64) ([]booking.Booking, error) {
	m.calls++
	return m.filter(func(b booking.Booking) bool { return b.ProfileID == profileID }), nil
}

func (m *memLedger) filter(keep func(booking.Booking) bool) []booking.Booking {
	out := []booking.Booking{}
	for _, b := range m.rows {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memLedger) Transition(ctx context.Context, params booking.TransitionParams) error {
	m.calls++
	b, ok := m.rows[params.BookingID]
	if !ok {
		return booking.ErrNotFound
	}
	if err := booking.CanTransition(b.Status, params.NextStatus); err != nil {
		return err
	}
	m.events[b.ID] = append(m.events[b.ID], booking.Event{BookingID: b.ID, PreviousStatus: b.Status, NextStatus: params.NextStatus, ActorAccountID: params.ActorAccountID})
	b.Status = params.NextStatus
	m.rows[b.ID] = b
	return nil
}

func (m *memLedger) HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error) {
	m.calls++
	for _, b := range m.rows {
		if b.ClientAccountID == clientAccountID && b.ProfileID == profileID && b.Status == booking.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLedger) Events(ctx context.Context, bookingID int64) ([]booking.Event, error) {
	m.calls++
	return m.events[bookingID], nil
}

// memReviews implements review.Store.
type memReviews struct {
	rows  []review.Review
	calls int
}

func (m *memReviews) Add(ctx context.Context, params review.AddParams) (int64, error) {
	m.calls++
	id := int64(len(m.rows) + 1)
	m.rows = append(m.rows, review.Review{ID: id, ProfileID: params.ProfileID, ClientAccountID: params.ClientAccountID, Rating: params.Rating, Comment: params.Comment})
	return id, nil
}

func (m *memReviews) AverageRating(ctx context.Context, profileID int64) (float64, error) {
	m.calls++
	var sum, n int
	for _, r := range m.rows {
		if r.ProfileID == profileID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (m *memReviews) ListForProfile(ctx context.Context, profileID int64) ([]review.Review, error) {
	m.calls++
	out := []review.Review{}
	for _, r := range m.rows {
		if r.ProfileID == profileID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fixture struct {
	gw       *Gateway
	accounts *memAccounts
	profiles *memProfiles
	ledger   *memLedger
	reviews  *memReviews
}

func newFixture() *fixture {
	accounts := newMemAccounts()
	profiles := newMemProfiles(accounts)
	ledger := newMemLedger(profiles)
	reviews := &memReviews{}

	gw := New(
		auth.NewService(accounts, "gateway-test-secret"),
		profile.NewService(profiles),
		booking.NewService(ledger),
		review.NewService(reviews),
	)
	return &fixture{gw: gw, accounts: accounts, profiles: profiles, ledger: ledger, reviews: reviews}
}

func (f *fixture) storeCalls() int {
	return f.profiles.calls + f.ledger.calls + f.reviews.calls
}

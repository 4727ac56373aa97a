package actors

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"stylebook/booking"
	"stylebook/gateway"
)

// Actor drives one session against the gateway. With Chaos set, storage
// failures caused by killed backends are expected and skipped.
type Actor struct {
	GW    *gateway.Gateway
	Token string
	Rng   *rand.Rand
	Chaos bool
}

var (
	locations = []string{"Lagos Island", "Lagos Mainland", "Abuja", "Ibadan", "Port Harcourt"}
	statuses  = []string{
		string(booking.StatusConfirmed),
		string(booking.StatusCancelled),
		string(booking.StatusCompleted),
		string(booking.StatusPending),
	}
)

func (a *Actor) loop(ctx context.Context, stop <-chan struct{}, name string, pause time.Duration, step func() error, expected ...gateway.Kind) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if err := step(); err != nil && !a.tolerated(err, expected) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		time.Sleep(pause + time.Duration(a.Rng.Int63n(int64(pause))))
	}
}

func (a *Actor) tolerated(err error, expected []gateway.Kind) bool {
	kind := gateway.KindOf(err)
	if kind == gateway.KindPersistence && a.Chaos {
		return true
	}
	for _, k := range expected {
		if kind == k {
			return true
		}
	}
	return false
}

// Registrar races other registrars for a small set of usernames.
func (a *Actor) Registrar(ctx context.Context, names []string, stop <-chan struct{}) error {
	return a.loop(ctx, stop, "registrar", 10*time.Millisecond, func() error {
		role := "client"
		if a.Rng.Intn(2) == 0 {
			role = "provider"
		}
		_, err := a.GW.Register(ctx, names[a.Rng.Intn(len(names))], "stress-pw", role)
		return err
	}, gateway.KindDuplicateUsername)
}

// Upserter rewrites the session owner's profile with random prices.
func (a *Actor) Upserter(ctx context.Context, stop <-chan struct{}) error {
	return a.loop(ctx, stop, "upserter", 15*time.Millisecond, func() error {
		_, err := a.GW.UpsertProfile(ctx, a.Token, gateway.ProfileInput{
			DisplayName: fmt.Sprintf("Stylist %d", a.Rng.Intn(1000)),
			SalonPrice:  float64(10 + a.Rng.Intn(90)),
			HomePrice:   float64(20 + a.Rng.Intn(120)),
			Location:    locations[a.Rng.Intn(len(locations))],
		})
		return err
	})
}

// Booker reserves random slots on random profiles.
func (a *Actor) Booker(ctx context.Context, profileIDs []int64, stop <-chan struct{}) error {
	kinds := []string{"salon", "home", "Salon", "Home"}
	return a.loop(ctx, stop, "booker", 10*time.Millisecond, func() error {
		_, err := a.GW.CreateBooking(ctx, a.Token, gateway.BookingInput{
			ProfileID:   profileIDs[a.Rng.Intn(len(profileIDs))],
			Date:        time.Date(2026, time.November, 1+a.Rng.Intn(28), 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			Time:        fmt.Sprintf("%02d:%02d", 8+a.Rng.Intn(10), 15*a.Rng.Intn(4)),
			ServiceKind: kinds[a.Rng.Intn(len(kinds))],
		})
		return err
	})
}

// Transitioner pushes random bookings of its profile to random statuses,
// racing other transitioners on the same rows.
func (a *Actor) Transitioner(ctx context.Context, profileID int64, stop <-chan struct{}) error {
	return a.loop(ctx, stop, "transitioner", 10*time.Millisecond, func() error {
		bookings, err := a.GW.ListBookingsForProfile(ctx, a.Token, profileID)
		if err != nil || len(bookings) == 0 {
			return err
		}
		target := bookings[a.Rng.Intn(len(bookings))]
		return a.GW.TransitionStatus(ctx, a.Token, target.ID, statuses[a.Rng.Intn(len(statuses))])
	}, gateway.KindInvalidTransition)
}

// Reviewer rates random profiles; profiles without a completed booking refuse.
func (a *Actor) Reviewer(ctx context.Context, profileIDs []int64, stop <-chan struct{}) error {
	return a.loop(ctx, stop, "reviewer", 25*time.Millisecond, func() error {
		_, err := a.GW.AddReview(ctx, a.Token, profileIDs[a.Rng.Intn(len(profileIDs))], 1+a.Rng.Intn(5), "stress")
		return err
	}, gateway.KindForbidden)
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestService_CreateValidatesBeforeLedger(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewService(ledger)
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	negative := -5.0

	cases := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"unknown kind", CreateParams{ClientAccountID: 1, ProfileID: 2, Date: date, Time: "10:00", ServiceKind: "mobile"}, ErrInvalidServiceKind},
		{"missing profile", CreateParams{ClientAccountID: 1, Date: date, Time: "10:00", ServiceKind: ServiceSalon}, ErrProfileNotFound},
		{"missing time", CreateParams{ClientAccountID: 1, ProfileID: 2, Date: date, ServiceKind: ServiceSalon}, ErrInvalidSchedule},
		{"missing client", CreateParams{ProfileID: 2, Date: date, Time: "10:00", ServiceKind: ServiceSalon}, ErrNotClient},
		{"negative override", CreateParams{ClientAccountID: 1, ProfileID: 2, Date: date, Time: "10:00", ServiceKind: ServiceHome, PriceOverride: &negative}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.params)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if ledger.creates != 0 {
		t.Fatalf("expected ledger untouched, got %d creates", ledger.creates)
	}

	if _, err := svc.Create(context.Background(), CreateParams{ClientAccountID: 1, ProfileID: 2, Date: date, Time: "10:00", ServiceKind: ServiceHome}); err != nil {
		t.Fatalf("valid create: %v", err)
	}
	if ledger.creates != 1 {
		t.Fatalf("expected one ledger create, got %d", ledger.creates)
	}
}

func TestService_TransitionRejectsUnknownStatus(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewService(ledger)

	err := svc.Transition(context.Background(), TransitionParams{BookingID: 1, NextStatus: "archived"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if ledger.transitions != 0 {
		t.Fatal("expected ledger untouched")
	}
}

type fakeLedger struct {
	creates     int
	transitions int
}

func (f *fakeLedger) Create(ctx context.Context, params CreateParams) (int64, error) {
	f.creates++
	return int64(f.creates), nil
}

func (f *fakeLedger) Get(ctx context.Context, id int64) (Booking, error) {
	return Booking{}, ErrNotFound
}

func (f *fakeLedger) ListForClient(ctx context.Context, clientAccountID int64) ([]Booking, error) {
	return nil, nil
}

func (f *fakeLedger) ListForProfile(ctx context.Context, profileID int64) ([]Booking, error) {
	return nil, nil
}

func (f *fakeLedger) Transition(ctx context.Context, params TransitionParams) error {
	f.transitions++
	return nil
}

func (f *fakeLedger) HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error) {
	return false, nil
}

func (f *fakeLedger) Events(ctx context.Context, bookingID int64) ([]Event, error) {
	return nil, nil
}

package profile

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestService_UpsertRejectsInvalidPrices(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	cases := []struct {
		name  string
		salon float64
		home  float64
	}{
		{"negative salon", -1, 10},
		{"negative home", 10, -0.01},
		{"nan", math.NaN(), 10},
		{"infinite", 10, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), UpsertParams{OwnerAccountID: 1, SalonPrice: tc.salon, HomePrice: tc.home})
			if !errors.Is(err, ErrInvalidPrice) {
				t.Fatalf("expected ErrInvalidPrice, got %v", err)
			}
		})
	}
	if store.upserts != 0 {
		t.Fatalf("expected store to be untouched, got %d upserts", store.upserts)
	}
}

func TestService_UpsertRequiresOwner(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.Upsert(context.Background(), UpsertParams{SalonPrice: 10, HomePrice: 20})
	if !errors.Is(err, ErrOwnerNotProvider) {
		t.Fatalf("expected ErrOwnerNotProvider, got %v", err)
	}
	if store.upserts != 0 {
		t.Fatalf("expected store to be untouched, got %d upserts", store.upserts)
	}
}

func TestService_UpsertAcceptsZeroPrices(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	id, err := svc.Upsert(context.Background(), UpsertParams{OwnerAccountID: 3})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id != 1 || store.upserts != 1 {
		t.Fatalf("expected one upsert returning id 1, got id=%d upserts=%d", id, store.upserts)
	}
}

func TestService_ListTrimsFilter(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	if _, err := svc.List(context.Background(), "  Lagos "); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastFilter != "Lagos" {
		t.Fatalf("expected trimmed filter, got %q", store.lastFilter)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"Lagos":   "Lagos",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeStore struct {
	upserts    int
	lastFilter string
}

func (f *fakeStore) Upsert(ctx context.Context, params UpsertParams) (int64, error) {
	f.upserts++
	return 1, nil
}

func (f *fakeStore) List(ctx context.Context, locationFilter string) ([]Profile, error) {
	f.lastFilter = locationFilter
	return nil, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (Profile, error) {
	return Profile{}, ErrNotFound
}

func (f *fakeStore) GetByOwner(ctx context.Context, ownerAccountID int64) (Profile, error) {
	return Profile{}, ErrNotFound
}

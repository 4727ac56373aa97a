package profile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidPrice signals a negative or non-numeric price.
var ErrInvalidPrice = errors.New("profile: invalid price")

// Store abstracts repository operations for the service.
type Store interface {
	Upsert(ctx context.Context, params UpsertParams) (int64, error)
	List(ctx context.Context, locationFilter string) ([]Profile, error)
	Get(ctx context.Context, id int64) (Profile, error)
	GetByOwner(ctx context.Context, ownerAccountID int64) (Profile, error)
}

// Service exposes business-level profile operations.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Upsert validates prices and saves the owner's profile.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (int64, error) {
	if params.OwnerAccountID <= 0 {
		return 0, fmt.Errorf("%w: missing owner account id", ErrOwnerNotProvider)
	}
	if !validPrice(params.SalonPrice) || !validPrice(params.HomePrice) {
		return 0, ErrInvalidPrice
	}
	return s.store.Upsert(ctx, params)
}

func (s *Service) List(ctx context.Context, locationFilter string) ([]Profile, error) {
	return s.store.List(ctx, strings.TrimSpace(locationFilter))
}

func (s *Service) Get(ctx context.Context, id int64) (Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByOwner(ctx context.Context, ownerAccountID int64) (Profile, error) {
	return s.store.GetByOwner(ctx, ownerAccountID)
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 1)
}

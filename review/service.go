package review

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidRating signals a rating outside MinRating..MaxRating.
var ErrInvalidRating = errors.New("review: invalid rating")

// Store abstracts repository operations for the service.
type Store interface {
	Add(ctx context.Context, params AddParams) (int64, error)
	AverageRating(ctx context.Context, profileID int64) (float64, error)
	ListForProfile(ctx context.Context, profileID int64) ([]Review, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add validates and stores a review. Repeat reviews from one client are accepted.
func (s *Service) Add(ctx context.Context, params AddParams) (int64, error) {
	if params.Rating < MinRating || params.Rating > MaxRating {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, params.Rating)
	}
	if params.ProfileID <= 0 {
		return 0, ErrProfileNotFound
	}
	return s.store.Add(ctx, params)
}

func (s *Service) AverageRating(ctx context.Context, profileID int64) (float64, error) {
	return s.store.AverageRating(ctx, profileID)
}

func (s *Service) ListForProfile(ctx context.Context, profileID int64) ([]Review, error) {
	return s.store.ListForProfile(ctx, profileID)
}

package booking

import (
	"context"
	"fmt"
)

// Ledger defines the data access required by the service.
type Ledger interface {
	Create(ctx context.Context, params CreateParams) (int64, error)
	Get(ctx context.Context, id int64) (Booking, error)
	ListForClient(ctx context.Context, clientAccountID int64) ([]Booking, error)
	ListForProfile(ctx context.Context, profileID int64) ([]Booking, error)
	Transition(ctx context.Context, params TransitionParams) error
	HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error)
	Events(ctx context.Context, bookingID int64) ([]Event, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Create validates the request and records a pending booking.
func (s *Service) Create(ctx context.Context, params CreateParams) (int64, error) {
	if params.ClientAccountID <= 0 {
		return 0, fmt.Errorf("%w: missing client account id", ErrNotClient)
	}
	if params.ProfileID <= 0 {
		return 0, ErrProfileNotFound
	}
	if _, err := ParseServiceKind(string(params.ServiceKind)); err != nil {
		return 0, err
	}
	if params.Date.IsZero() || params.Time == "" {
		return 0, ErrInvalidSchedule
	}
	if params.PriceOverride != nil && *params.PriceOverride < 0 {
		return 0, fmt.Errorf("%w: negative override %v", ErrInvalidPrice, *params.PriceOverride)
	}
	return s.ledger.Create(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (Booking, error) {
	return s.ledger.Get(ctx, id)
}

func (s *Service) ListForClient(ctx context.Context, clientAccountID int64) ([]Booking, error) {
	return s.ledger.ListForClient(ctx, clientAccountID)
}

func (s *Service) ListForProfile(ctx context.Context, profileID int64) ([]Booking, error) {
	return s.ledger.ListForProfile(ctx, profileID)
}

// Transition applies a status change through the ledger's state machine.
func (s *Service) Transition(ctx context.Context, params TransitionParams) error {
	if _, err := ParseStatus(string(params.NextStatus)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return s.ledger.Transition(ctx, params)
}

func (s *Service) HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error) {
	return s.ledger.HasCompleted(ctx, clientAccountID, profileID)
}

func (s *Service) Events(ctx context.Context, bookingID int64) ([]Event, error) {
	return s.ledger.Events(ctx, bookingID)
}

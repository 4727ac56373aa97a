package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var (
	// ErrInvalidTransition signals a status change the state machine forbids.
	ErrInvalidTransition = errors.New("booking: invalid status transition")
	// ErrInvalidServiceKind signals a service kind other than salon or home.
	ErrInvalidServiceKind = errors.New("booking: invalid service kind")
	// ErrInvalidStatus signals an unknown status name.
	ErrInvalidStatus = errors.New("booking: invalid status")
	// ErrInvalidSchedule signals a malformed date or time.
	ErrInvalidSchedule = errors.New("booking: invalid date or time")
	// ErrInvalidPrice signals a negative frozen price.
	ErrInvalidPrice = errors.New("booking: invalid price")
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// InitialStatus is the status every new booking starts in.
func InitialStatus() Status {
	return StatusPending
}

// CanTransition reports whether current may move to next.
func CanTransition(current, next Status) error {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w %s -> %s", ErrInvalidTransition, current, next)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
	}
}

// ParseServiceKind accepts salon or home in any letter case.
func ParseServiceKind(s string) (ServiceKind, error) {
	switch k := ServiceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ServiceSalon, ServiceHome:
		return k, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidServiceKind, s)
	}
}

// PriceFor picks the price matching kind.
func PriceFor(kind ServiceKind, salonPrice, homePrice float64) (float64, error) {
	switch kind {
	case ServiceSalon:
		return salonPrice, nil
	case ServiceHome:
		return homePrice, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidServiceKind, kind)
	}
}

// ParseSchedule validates a YYYY-MM-DD date and an HH:MM time.
func ParseSchedule(date, clock string) (time.Time, string, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: date %q", ErrInvalidSchedule, date)
	}
	c, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: time %q", ErrInvalidSchedule, clock)
	}
	return d, c.Format("15:04"), nil
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no booking row exists for the identifier.
	ErrNotFound = errors.New("booking: not found")
	// ErrProfileNotFound is returned when the referenced profile does not exist.
	ErrProfileNotFound = errors.New("booking: profile not found")
	// ErrNotClient is returned when the booking account is missing or is not a client.
	ErrNotClient = errors.New("booking: account is not a client")
)

const bookingColumns = `id, client_account_id, profile_id, booking_date, booking_time, service_kind, price, status, created_at, updated_at`

// Repository is the PostgreSQL-backed booking ledger.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a pending booking whose price is frozen from the profile as it
// stands inside the transaction.
func (r *Repository) Create(ctx context.Context, params CreateParams) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var role string
	if err := tx.QueryRow(ctx, `SELECT role FROM accounts WHERE id = $1 FOR SHARE`, params.ClientAccountID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotClient
		}
		return 0, fmt.Errorf("booking: load client: %w", err)
	}
	if role != "client" {
		return 0, ErrNotClient
	}

	var salonPrice, homePrice float64
	if err := tx.QueryRow(ctx, `SELECT salon_price, home_price FROM profiles WHERE id = $1 FOR SHARE`, params.ProfileID).
		Scan(&salonPrice, &homePrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProfileNotFound
		}
		return 0, fmt.Errorf("booking: load profile: %w", err)
	}

	price, err := PriceFor(params.ServiceKind, salonPrice, homePrice)
	if err != nil {
		return 0, err
	}
	if params.PriceOverride != nil {
		price = *params.PriceOverride
	}

	const insertSQL = `
INSERT INTO bookings (client_account_id, profile_id, booking_date, booking_time, service_kind, price, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	var id int64
	if err := tx.QueryRow(ctx, insertSQL,
		params.ClientAccountID,
		params.ProfileID,
		params.Date,
		params.Time,
		params.ServiceKind,
		price,
		InitialStatus(),
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("booking: insert: %w", err)
	}

	actor := params.ClientAccountID
	if err := appendEvent(ctx, tx, id, "", InitialStatus(), &actor); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("booking: commit create: %w", err)
	}
	return id, nil
}

// Get fetches a booking by id.
func (r *Repository) Get(ctx context.Context, id int64) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("booking: get: %w", err)
	}
	return b, nil
}

func (r *Repository) ListForClient(ctx context.Context, clientAccountID int64) ([]Booking, error) {
	return r.list(ctx, `client_account_id = $1`, clientAccountID)
}

func (r *Repository) ListForProfile(ctx context.Context, profileID int64) ([]Booking, error) {
	return r.list(ctx, `profile_id = $1`, profileID)
}

func (r *Repository) list(ctx context.Context, where string, arg int64) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, fmt.Errorf("booking: list: %w", err)
	}
	defer rows.Close()

	out := make([]Booking, 0, 8)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("booking: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate: %w", err)
	}
	return out, nil
}

// Transition moves a booking to the next status. The row lock makes the check
// and the update one step with respect to concurrent transitions.
func (r *Repository) Transition(ctx context.Context, params TransitionParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current Status
	if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, params.BookingID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("booking: fetch current status: %w", err)
	}

	if err := CanTransition(current, params.NextStatus); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, params.NextStatus, params.BookingID); err != nil {
		return fmt.Errorf("booking: update status: %w", err)
	}

	if err := appendEvent(ctx, tx, params.BookingID, current, params.NextStatus, params.ActorAccountID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("booking: commit transition: %w", err)
	}
	return nil
}

// HasCompleted reports whether the client holds a completed booking on the profile.
func (r *Repository) HasCompleted(ctx context.Context, clientAccountID, profileID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE client_account_id = $1 AND profile_id = $2 AND status = 'completed'
)
`
	var ok bool
	if err := r.pool.QueryRow(ctx, query, clientAccountID, profileID).Scan(&ok); err != nil {
		return false, fmt.Errorf("booking: check completed: %w", err)
	}
	return ok, nil
}

// Events returns the status timeline of a booking, oldest first.
func (r *Repository) Events(ctx context.Context, bookingID int64) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, booking_id, previous_status, next_status, actor_account_id, created_at
FROM booking_events
WHERE booking_id = $1
ORDER BY id
`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking: list events: %w", err)
	}
	defer rows.Close()

	out := make([]Event, 0, 4)
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.BookingID, &ev.PreviousStatus, &ev.NextStatus, &ev.ActorAccountID, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("booking: scan event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate events: %w", err)
	}
	return out, nil
}

func appendEvent(ctx context.Context, tx pgx.Tx, bookingID int64, previous, next Status, actorID *int64) error {
	const insertSQL = `
INSERT INTO booking_events (booking_id, previous_status, next_status, actor_account_id)
VALUES ($1, $2, $3, $4)
`
	if _, err := tx.Exec(ctx, insertSQL, bookingID, previous, next, actorID); err != nil {
		return fmt.Errorf("booking: insert event: %w", err)
	}
	return nil
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID,
		&b.ClientAccountID,
		&b.ProfileID,
		&b.Date,
		&b.Time,
		&b.ServiceKind,
		&b.Price,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}

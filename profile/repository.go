package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no profile row matches.
	ErrNotFound = errors.New("profile: not found")
	// ErrOwnerNotProvider is returned when the owner account is missing or is not a provider.
	ErrOwnerNotProvider = errors.New("profile: owner is not a provider account")
)

const profileColumns = `id, owner_account_id, name, styles, salon_price, home_price, availability, location, image_blob, image_type, rating_default, created_at, updated_at`

// Repository persists profiles in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes the owner's single profile, replacing any existing row in place
// so the profile id stays stable across saves.
func (r *Repository) Upsert(ctx context.Context, params UpsertParams) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("profile: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var role string
	err = tx.QueryRow(ctx, `SELECT role FROM accounts WHERE id = $1 FOR SHARE`, params.OwnerAccountID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrOwnerNotProvider
		}
		return 0, fmt.Errorf("profile: load owner: %w", err)
	}
	if role != "provider" {
		return 0, ErrOwnerNotProvider
	}

	const upsertSQL = `
INSERT INTO profiles (owner_account_id, name, styles, salon_price, home_price, availability, location, image_blob, image_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (owner_account_id) DO UPDATE
SET name         = EXCLUDED.name,
    styles       = EXCLUDED.styles,
    salon_price  = EXCLUDED.salon_price,
    home_price   = EXCLUDED.home_price,
    availability = EXCLUDED.availability,
    location     = EXCLUDED.location,
    image_blob   = EXCLUDED.image_blob,
    image_type   = EXCLUDED.image_type,
    updated_at   = now()
RETURNING id
`

	var id int64
	if err := tx.QueryRow(ctx, upsertSQL,
		params.OwnerAccountID,
		params.DisplayName,
		params.Styles,
		params.SalonPrice,
		params.HomePrice,
		params.Availability,
		params.Location,
		params.Image,
		params.ImageType,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("profile: upsert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("profile: commit upsert: %w", err)
	}
	return id, nil
}

// List returns profiles whose location contains locationFilter, ignoring case.
// An empty filter returns every profile. Rows come back in insertion order.
func (r *Repository) List(ctx context.Context, locationFilter string) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []any{}
	if locationFilter != "" {
		query += ` WHERE location ILIKE $1 ESCAPE '\'`
		args = append(args, "%"+escapeLike(locationFilter)+"%")
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	defer rows.Close()

	out := make([]Profile, 0, 16)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("profile: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: iterate: %w", err)
	}
	return out, nil
}

// Get fetches a profile by its primary key.
func (r *Repository) Get(ctx context.Context, id int64) (Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: get: %w", err)
	}
	return p, nil
}

// GetByOwner fetches the profile owned by the given provider account.
func (r *Repository) GetByOwner(ctx context.Context, ownerAccountID int64) (Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE owner_account_id = $1`, ownerAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: get by owner: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.OwnerAccountID,
		&p.DisplayName,
		&p.Styles,
		&p.SalonPrice,
		&p.HomePrice,
		&p.Availability,
		&p.Location,
		&p.Image,
		&p.ImageType,
		&p.Rating,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

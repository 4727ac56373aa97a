package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProfileNotFound is returned when the reviewed profile does not exist.
var ErrProfileNotFound = errors.New("review: profile not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Add appends a review row. The foreign key rejects unknown profiles.
func (r *Repository) Add(ctx context.Context, params AddParams) (int64, error) {
	const insertSQL = `
		INSERT INTO reviews (profile_id, client_account_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, insertSQL, params.ProfileID, params.ClientAccountID, params.Rating, params.Comment).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "reviews_profile_id_fkey" {
			return 0, ErrProfileNotFound
		}
		return 0, fmt.Errorf("review: insert: %w", err)
	}
	return id, nil
}

// AverageRating recomputes the mean rating from stored rows; no rows yields 0.
func (r *Repository) AverageRating(ctx context.Context, profileID int64) (float64, error) {
	var avg float64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE profile_id = $1`, profileID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("review: average: %w", err)
	}
	return avg, nil
}

func (r *Repository) ListForProfile(ctx context.Context, profileID int64) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, client_account_id, rating, comment, created_at
		FROM reviews
		WHERE profile_id = $1
		ORDER BY id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("review: list: %w", err)
	}
	defer rows.Close()

	out := make([]Review, 0, 8)
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProfileID, &rv.ClientAccountID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("review: scan: %w", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review: iterate: %w", err)
	}
	return out, nil
}

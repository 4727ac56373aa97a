package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns queries that must yield no rows at any instant.
func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_unique_username",
			SQL:  `SELECT username, COUNT(*) FROM accounts GROUP BY username HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_one_profile_per_owner",
			SQL:  `SELECT owner_account_id, COUNT(*) FROM profiles GROUP BY owner_account_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O3_profile_owner_is_provider",
			SQL: `SELECT p.id, a.role FROM profiles p
				JOIN accounts a ON a.id = p.owner_account_id
				WHERE a.role <> 'provider'`,
		},
		{
			Name: "O4_booking_client_is_client",
			SQL: `SELECT b.id, a.role FROM bookings b
				JOIN accounts a ON a.id = b.client_account_id
				WHERE a.role <> 'client'`,
		},
		{
			Name: "O5_status_matches_latest_event",
			SQL: `SELECT b.id, b.status, e.next_status FROM bookings b
				LEFT JOIN LATERAL (
					SELECT next_status FROM booking_events
					WHERE booking_id = b.id
					ORDER BY id DESC LIMIT 1
				) e ON true
				WHERE e.next_status IS DISTINCT FROM b.status`,
		},
		{
			Name: "O6_legal_event_pairs",
			SQL: `SELECT id, booking_id, previous_status, next_status FROM booking_events
				WHERE (previous_status, next_status) NOT IN (
					('', 'pending'),
					('pending', 'confirmed'),
					('pending', 'cancelled'),
					('confirmed', 'completed'),
					('confirmed', 'cancelled'))`,
		},
		{
			Name: "O7_event_chain_unbroken",
			SQL: `WITH chain AS (
					SELECT id, booking_id, previous_status,
						LAG(next_status, 1, '') OVER (PARTITION BY booking_id ORDER BY id) AS prior
					FROM booking_events)
				SELECT * FROM chain WHERE previous_status <> prior`,
		},
		{
			Name: "O8_review_requires_completed_booking",
			SQL: `SELECT r.id FROM reviews r
				WHERE NOT EXISTS (
					SELECT 1 FROM bookings b
					WHERE b.client_account_id = r.client_account_id
					  AND b.profile_id = r.profile_id
					  AND b.status = 'completed')`,
		},
		{
			Name: "O9_rating_in_range",
			SQL:  `SELECT id, rating FROM reviews WHERE rating NOT BETWEEN 1 AND 5`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
	}
	return "", "", nil
}

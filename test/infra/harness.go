package infra

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DSNEnv names the variable pointing tests at an existing PostgreSQL.
const DSNEnv = "STYLEBOOK_TEST_DSN"

// Harness owns a schema-initialised pool and whatever database backs it.
type Harness struct {
	container *PGContainer
	pool      *pgxpool.Pool
	dsn       string
	teardown  func(context.Context) error
}

// NewHarness resolves a database in order: overrideDSN, $STYLEBOOK_TEST_DSN,
// a docker container, then a local PostgreSQL. Shared databases get an
// isolated schema.
func NewHarness(ctx context.Context, overrideDSN string) (*Harness, error) {
	h := &Harness{}
	shared := true

	switch {
	case overrideDSN != "":
		h.dsn = overrideDSN
	case os.Getenv(DSNEnv) != "":
		h.dsn = os.Getenv(DSNEnv)
	case DockerAvailable(ctx):
		c, dsn, err := StartPostgres16(ctx)
		if err != nil {
			return nil, fmt.Errorf("start postgres container: %w", err)
		}
		h.container, h.dsn, shared = c, dsn, false
	default:
		dsn, err := InitLocalDatabase(ctx)
		if err != nil {
			return nil, fmt.Errorf("no database available: %w", err)
		}
		h.dsn, shared = dsn, false
	}

	pool, teardown, err := OpenWithSchema(ctx, h.dsn, shared)
	if err != nil {
		_ = h.container.Terminate(ctx)
		return nil, err
	}
	h.pool, h.teardown = pool, teardown
	return h, nil
}

func (h *Harness) Pool() *pgxpool.Pool {
	return h.pool
}

// DSN returns the connection string for direct connections.
func (h *Harness) DSN() string {
	return h.dsn
}

// Close tears down resources.
func (h *Harness) Close(ctx context.Context) error {
	if h.pool != nil {
		h.pool.Close()
	}
	var firstErr error
	if h.teardown != nil {
		firstErr = h.teardown(ctx)
	}
	if err := h.container.Terminate(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Reset truncates every table and restarts identities between tests.
func (h *Harness) Reset(ctx context.Context) error {
	tables := []string{
		"reviews",
		"booking_events",
		"bookings",
		"profiles",
		"accounts",
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tbl := range tables {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+tbl+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", tbl, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset commit: %w", err)
	}
	return nil
}

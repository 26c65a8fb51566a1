package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventline/registration/internal/model"
)

// ticketSequenceLock is the advisory lock key serialising ticket assignment.
// Count-then-insert is not atomic on its own: two concurrent creates can read
// the same row count and mint duplicate ticket numbers. Holding this
// transaction-scoped lock across the count and the insert removes the race.
const ticketSequenceLock = 815551

const schema = `
CREATE TABLE IF NOT EXISTS registrations (
    id            UUID PRIMARY KEY,
    email         TEXT   NOT NULL,
    ticket_number BIGINT NOT NULL,
    created_at    BIGINT NOT NULL,
    name          TEXT   NOT NULL DEFAULT '',
    username      TEXT   NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS registrations_email_key ON registrations (email);
`

// PostgresStore persists registrations in PostgreSQL using pgx directly.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a validated pgxpool and ensures the schema exists.
// It retries the initial connection to accommodate containers starting up.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	// Sensible pool defaults for a small service.
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				break
			}
			pool.Close()
		}
		log.Printf("db connect attempt %d/5 failed: %v – retrying in 2s", attempt, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// FindByEmail returns the registration row for an email or ErrNotFound.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*model.Registration, error) {
	var reg model.Registration
	err := s.db.QueryRow(ctx,
		`SELECT id, email, ticket_number, created_at, name, username
		 FROM registrations WHERE email = $1`,
		email,
	).Scan(&reg.ID, &reg.Email, &reg.TicketNumber, &reg.CreatedAt, &reg.Name, &reg.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// Create assigns the next ticket number and inserts the row, all inside one
// transaction holding the sequence advisory lock.
func (s *PostgresStore) Create(ctx context.Context, email string) (*model.Registration, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// ── Step 1: Serialise ticket assignment across all creators. ──────────
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ticketSequenceLock); err != nil {
		return nil, fmt.Errorf("acquire sequence lock: %w", err)
	}

	// ── Step 2: Re-check for a concurrent same-email create. ──────────────
	// Two requests for the same email can both miss the lookup; the one
	// arriving here second must return the winner's row, not insert a twin.
	var existing model.Registration
	err = tx.QueryRow(ctx,
		`SELECT id, email, ticket_number, created_at, name, username
		 FROM registrations WHERE email = $1`,
		email,
	).Scan(&existing.ID, &existing.Email, &existing.TicketNumber,
		&existing.CreatedAt, &existing.Name, &existing.Username)
	if err == nil {
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}

	// ── Step 3: Next ticket number is the row count plus one. ─────────────
	var count int64
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}

	// ── Step 4: Insert the registration record. ───────────────────────────
	reg := &model.Registration{
		ID:           uuid.New().String(),
		Email:        email,
		TicketNumber: count + 1,
		CreatedAt:    time.Now().UTC().UnixMilli(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, email, ticket_number, created_at)
		 VALUES ($1, $2, $3, $4)`,
		reg.ID, reg.Email, reg.TicketNumber, reg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return reg, nil
}

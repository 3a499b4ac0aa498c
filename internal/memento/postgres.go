package memento

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger persists mementos in PostgreSQL. Conversation state itself
// stays in-memory; the ledger only has to resolve ids minted by this
// process, so a write-through table is enough.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(ctx context.Context, databaseURL string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresLedger{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mementos (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			rarity TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			emotion TEXT NOT NULL,
			story_snippet TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_mementos_created ON mementos (created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (l *PostgresLedger) Put(ctx context.Context, m Memento) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO mementos (id, type, rarity, value, emotion, story_snippet, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		m.ID,
		m.Type,
		m.Rarity,
		m.Value,
		m.Emotion,
		m.StorySnippet,
		m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("put memento: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Get(ctx context.Context, id string) (Memento, error) {
	var m Memento
	err := l.pool.QueryRow(ctx,
		`SELECT id, type, rarity, value, emotion, story_snippet, created_at
		 FROM mementos WHERE id=$1`,
		id,
	).Scan(&m.ID, &m.Type, &m.Rarity, &m.Value, &m.Emotion, &m.StorySnippet, &m.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return Memento{}, ErrNotFound
	}
	if err != nil {
		return Memento{}, fmt.Errorf("get memento: %w", err)
	}
	return m, nil
}

func (l *PostgresLedger) Close() error {
	l.pool.Close()
	return nil
}

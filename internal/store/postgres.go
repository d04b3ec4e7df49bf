package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"decant-store/internal/config"
	"decant-store/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore implements AccountStore over a single accounts table with the
// record stored as jsonb. Save is one transaction, which gives this backend
// the per-key transactional behaviour the flat file cannot offer.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresStore creates a postgres-backed account store and ensures its
// schema exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (AccountStore, error) {
	s := &postgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-store").Logger(),
	}

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			username TEXT PRIMARY KEY,
			record   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure accounts schema: %w", err)
	}

	return s, nil
}

// Load reads every account row. Failures degrade to an empty mapping, matching
// the file backend's availability-over-correctness contract.
func (s *postgresStore) Load(ctx context.Context) map[string]model.Account {
	users := map[string]model.Account{}

	rows, err := s.pool.Query(ctx, `SELECT username, record FROM accounts`)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to query accounts, treating as empty")
		return users
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		var record []byte
		if err := rows.Scan(&username, &record); err != nil {
			s.logger.Warn().Err(err).Msg("failed to scan account row, skipping")
			continue
		}

		var account model.Account
		if err := json.Unmarshal(record, &account); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("malformed account record, skipping")
			continue
		}
		users[username] = account
	}

	if err := rows.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to read accounts, treating as empty")
		return map[string]model.Account{}
	}

	return users
}

// Save replaces the full mapping in one transaction.
func (s *postgresStore) Save(ctx context.Context, users map[string]model.Account) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	for username, account := range users {
		record, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to serialise account %s: %w", username, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO accounts (username, record, updated_at) VALUES ($1, $2, now())`,
			username, record)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", username, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accounts: %w", err)
	}

	s.logger.Debug().Int("accounts", len(users)).Msg("accounts saved")

	return nil
}

// Package db provides PostgreSQL database access for the Modify music recommender.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique constraint is violated,
	// e.g. signing up with a taken username or email.
	ErrAlreadyExists = errors.New("already exists")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Users returns a UserRepository.
func (db *DB) Users() *UserRepository {
	return &UserRepository{pool: db.pool}
}

// Songs returns a SongRepository.
func (db *DB) Songs() *SongRepository {
	return &SongRepository{pool: db.pool}
}

// Interactions returns an InteractionRepository.
func (db *DB) Interactions() *InteractionRepository {
	return &InteractionRepository{pool: db.pool}
}

// Recommendations returns a RecommendationRepository.
func (db *DB) Recommendations() *RecommendationRepository {
	return &RecommendationRepository{pool: db.pool}
}

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecommendationRepository handles recommendation history database operations.
type RecommendationRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new recommendation record. Records are immutable once
// written; there is deliberately no update path.
func (r *RecommendationRepository) Create(ctx context.Context, rec *RecommendationRecord) error {
	query := `
		INSERT INTO recommendation_history (id, user_id, recommendation_type, criteria, songs, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Type,
		rec.Criteria,
		rec.Songs,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting recommendation record: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's recommendation records, most recent first,
// up to the given limit.
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID, limit int) ([]RecommendationRecord, error) {
	query := `
		SELECT id, user_id, recommendation_type, criteria, songs, created_at
		FROM recommendation_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recommendation records: %w", err)
	}
	defer rows.Close()

	var records []RecommendationRecord
	for rows.Next() {
		var rec RecommendationRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Criteria, &rec.Songs, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recommendation record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

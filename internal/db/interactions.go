package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InteractionRepository handles user interaction database operations.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

// ListByUser retrieves all interaction rows for a user, oldest first.
func (r *InteractionRepository) ListByUser(ctx context.Context, userID int) ([]Interaction, error) {
	query := `
		SELECT id, user_id, song_id, interaction_type, created_at
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		var it Interaction
		if err := rows.Scan(&it.ID, &it.UserID, &it.SongID, &it.Type, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}

// ReplaceType replaces every interaction of the given type for a user with
// the supplied song IDs. The delete and insert run in one transaction, so a
// reader never observes the half-applied state between them.
func (r *InteractionRepository) ReplaceType(ctx context.Context, userID int, interactionType string, songIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteQuery := `DELETE FROM user_interactions WHERE user_id = $1 AND interaction_type = $2`
	if _, err := tx.Exec(ctx, deleteQuery, userID, interactionType); err != nil {
		return fmt.Errorf("deleting interactions: %w", err)
	}

	if len(songIDs) > 0 {
		insertQuery := `
			INSERT INTO user_interactions (user_id, song_id, interaction_type, created_at)
			SELECT $1, unnest($2::int[]), $3, $4
		`
		if _, err := tx.Exec(ctx, insertQuery, userID, songIDs, interactionType, time.Now()); err != nil {
			return fmt.Errorf("inserting interactions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Record appends a single interaction event, e.g. a play.
func (r *InteractionRepository) Record(ctx context.Context, userID, songID int, interactionType string) error {
	query := `
		INSERT INTO user_interactions (user_id, song_id, interaction_type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, userID, songID, interactionType, time.Now())
	if err != nil {
		return fmt.Errorf("recording interaction: %w", err)
	}
	return nil
}

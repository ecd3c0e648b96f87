package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SongRepository handles song database operations.
type SongRepository struct {
	pool *pgxpool.Pool
}

const songColumns = `id, title, artist, genre, mood_tag, energy_level, valence, danceability, acousticness, preview_url`

func scanSong(row pgx.Row, song *Song) error {
	return row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Genre,
		&song.MoodTag,
		&song.EnergyLevel,
		&song.Valence,
		&song.Danceability,
		&song.Acousticness,
		&song.PreviewURL,
	)
}

// Get retrieves a song by ID.
func (r *SongRepository) Get(ctx context.Context, id int) (*Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = $1`
	var song Song
	err := scanSong(r.pool.QueryRow(ctx, query, id), &song)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying song: %w", err)
	}
	return &song, nil
}

// ListAll retrieves every song in the catalog, ordered by ID.
func (r *SongRepository) ListAll(ctx context.Context) ([]Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY id`
	return r.list(ctx, query)
}

// ListByMood retrieves songs whose mood_tag exactly matches the given mood,
// ordered by ID. An empty result is a valid zero-match outcome, not an error.
func (r *SongRepository) ListByMood(ctx context.Context, mood string) ([]Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE mood_tag = $1 ORDER BY id`
	return r.list(ctx, query, mood)
}

// ListUntagged retrieves songs with no mood tag, ordered by ID.
func (r *SongRepository) ListUntagged(ctx context.Context) ([]Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE mood_tag = '' ORDER BY id`
	return r.list(ctx, query)
}

func (r *SongRepository) list(ctx context.Context, query string, args ...any) ([]Song, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := scanSong(rows, &song); err != nil {
			return nil, fmt.Errorf("scanning song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Insert creates a new song and fills in its assigned ID.
func (r *SongRepository) Insert(ctx context.Context, song *Song) error {
	query := `
		INSERT INTO songs (title, artist, genre, mood_tag, energy_level, valence, danceability, acousticness, preview_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		song.Title,
		song.Artist,
		song.Genre,
		song.MoodTag,
		song.EnergyLevel,
		song.Valence,
		song.Danceability,
		song.Acousticness,
		song.PreviewURL,
	).Scan(&song.ID)
	if err != nil {
		return fmt.Errorf("inserting song: %w", err)
	}
	return nil
}

// UpdateMoodTags applies derived mood tags to songs in a single batch.
func (r *SongRepository) UpdateMoodTags(ctx context.Context, tags map[int]string) error {
	if len(tags) == 0 {
		return nil
	}

	ids := make([]int, 0, len(tags))
	moods := make([]string, 0, len(tags))
	for id, mood := range tags {
		ids = append(ids, id)
		moods = append(moods, mood)
	}

	query := `
		UPDATE songs SET mood_tag = u.mood_tag
		FROM (SELECT unnest($1::int[]) AS id, unnest($2::text[]) AS mood_tag) u
		WHERE songs.id = u.id
	`
	_, err := r.pool.Exec(ctx, query, ids, moods)
	if err != nil {
		return fmt.Errorf("updating mood tags: %w", err)
	}
	return nil
}

// Count returns the number of songs in the catalog.
func (r *SongRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting songs: %w", err)
	}
	return count, nil
}

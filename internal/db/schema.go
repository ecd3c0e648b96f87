package db

import (
	"context"
	"fmt"
)

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			genre TEXT NOT NULL,
			mood_tag TEXT NOT NULL DEFAULT '',
			energy_level INT NOT NULL DEFAULT 0,
			valence DOUBLE PRECISION NOT NULL DEFAULT 0,
			danceability DOUBLE PRECISION NOT NULL DEFAULT 0,
			acousticness DOUBLE PRECISION NOT NULL DEFAULT 0,
			preview_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS user_interactions (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			song_id INT NOT NULL,
			interaction_type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_interactions_user
			ON user_interactions (user_id, interaction_type)`,
		`CREATE TABLE IF NOT EXISTS recommendation_history (
			id UUID PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recommendation_type TEXT NOT NULL,
			criteria JSONB NOT NULL,
			songs JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendation_history_user
			ON recommendation_history (user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// sampleSongs is the starter catalog inserted into an empty database.
// Note: song_id in user_interactions is deliberately unconstrained so that
// filesystem-derived songs (reserved high ID range) can be liked too.
var sampleSongs = []Song{
	{Title: "Sunny Days", Artist: "Alex Rivers", Genre: "Pop", MoodTag: "happy", EnergyLevel: 85, Valence: 0.9, Danceability: 0.8, Acousticness: 0.2, PreviewURL: "#"},
	{Title: "Midnight Blues", Artist: "Sarah Moon", Genre: "Blues", MoodTag: "sad", EnergyLevel: 30, Valence: 0.2, Danceability: 0.3, Acousticness: 0.9, PreviewURL: "#"},
	{Title: "Thunder Strike", Artist: "Metal Warriors", Genre: "Rock", MoodTag: "angry", EnergyLevel: 95, Valence: 0.1, Danceability: 0.6, Acousticness: 0.1, PreviewURL: "#"},
	{Title: "Ocean Waves", Artist: "Calm Collective", Genre: "Ambient", MoodTag: "relaxed", EnergyLevel: 15, Valence: 0.7, Danceability: 0.2, Acousticness: 0.95, PreviewURL: "#"},
	{Title: "Party Tonight", Artist: "DJ Pulse", Genre: "Electronic", MoodTag: "excited", EnergyLevel: 90, Valence: 0.85, Danceability: 0.9, Acousticness: 0.05, PreviewURL: "#"},
	{Title: "Forest Path", Artist: "Nature Sounds", Genre: "Ambient", MoodTag: "calm", EnergyLevel: 10, Valence: 0.6, Danceability: 0.1, Acousticness: 0.98, PreviewURL: "#"},
	{Title: "Electric Rush", Artist: "Synth Masters", Genre: "Electronic", MoodTag: "energetic", EnergyLevel: 88, Valence: 0.8, Danceability: 0.85, Acousticness: 0.1, PreviewURL: "#"},
	{Title: "Heartbreak Hotel", Artist: "Emo Kid", Genre: "Alternative", MoodTag: "sad", EnergyLevel: 40, Valence: 0.25, Danceability: 0.4, Acousticness: 0.7, PreviewURL: "#"},
	{Title: "Chill Vibes", Artist: "Lo-Fi Master", Genre: "Electronic", MoodTag: "calm", EnergyLevel: 25, Valence: 0.65, Danceability: 0.6, Acousticness: 0.8, PreviewURL: "#"},
	{Title: "Victory March", Artist: "Epic Orchestra", Genre: "Classical", MoodTag: "energetic", EnergyLevel: 92, Valence: 0.88, Danceability: 0.3, Acousticness: 0.9, PreviewURL: "#"},
}

// Seed inserts the sample catalog if the songs table is empty.
func (db *DB) Seed(ctx context.Context) error {
	songs := db.Songs()

	count, err := songs.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range sampleSongs {
		song := sampleSongs[i]
		if err := songs.Insert(ctx, &song); err != nil {
			return fmt.Errorf("seeding songs: %w", err)
		}
	}
	return nil
}

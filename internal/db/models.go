package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Interaction types.
const (
	InteractionLike = "like"
	InteractionSkip = "skip"
	InteractionPlay = "play"
)

// User represents a registered account.
type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Song represents a catalog track.
//
// EnergyLevel is an integer on a 0-100 axis and drives intensity ranking.
// Valence, Danceability and Acousticness are normalized 0-1 audio features
// used only by the auto-tagger; they default to zero when unknown.
type Song struct {
	ID           int
	Title        string
	Artist       string
	Genre        string
	MoodTag      string
	EnergyLevel  int
	Valence      float64
	Danceability float64
	Acousticness float64
	PreviewURL   string
}

// Interaction represents a single like/skip/play event against a song.
type Interaction struct {
	ID        int
	UserID    int
	SongID    int
	Type      string
	CreatedAt time.Time
}

// RecommendationRecord is a persisted snapshot of a past recommendation.
// Records are write-once: inserted on save, never updated.
type RecommendationRecord struct {
	ID        uuid.UUID
	UserID    int
	Type      string
	Criteria  json.RawMessage
	Songs     json.RawMessage
	CreatedAt time.Time
}

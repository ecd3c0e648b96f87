// Package prefs manages per-user like/skip preference state.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/modifymusic/modify/internal/db"
)

// InteractionStore is the persistence surface the service consumes.
type InteractionStore interface {
	ListByUser(ctx context.Context, userID int) ([]db.Interaction, error)
	ReplaceType(ctx context.Context, userID int, interactionType string, songIDs []int) error
}

// Preferences holds a user's current liked and skipped song ID sets.
// The stored interaction rows are the single source of truth; any cached
// copy a client keeps must be resynchronized after every mutating call.
type Preferences struct {
	LikedSongIDs   []int `json:"liked_songs"`
	SkippedSongIDs []int `json:"skipped_songs"`
}

// Update carries a preference mutation. A nil field leaves that interaction
// type untouched; a non-nil field replaces the full set for that type, so an
// empty non-nil slice clears it.
type Update struct {
	Liked   *[]int `json:"liked_songs,omitempty"`
	Skipped *[]int `json:"skipped_songs,omitempty"`
}

// Service reads and writes user preferences.
type Service struct {
	store InteractionStore

	// Per-user locks serialize the delete-then-insert window so two
	// concurrent full replaces for one user apply whole snapshots in some
	// order rather than interleaving. Cross-user writes stay parallel.
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// New creates a preference service over the given store.
func New(store InteractionStore) *Service {
	return &Service{
		store: store,
		locks: make(map[int]*sync.Mutex),
	}
}

// Get reconstructs the user's preference sets from the interaction rows.
func (s *Service) Get(ctx context.Context, userID int) (*Preferences, error) {
	interactions, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading interactions: %w", err)
	}

	prefs := &Preferences{
		LikedSongIDs:   []int{},
		SkippedSongIDs: []int{},
	}
	for _, it := range interactions {
		switch it.Type {
		case db.InteractionLike:
			prefs.LikedSongIDs = append(prefs.LikedSongIDs, it.SongID)
		case db.InteractionSkip:
			prefs.SkippedSongIDs = append(prefs.SkippedSongIDs, it.SongID)
		}
	}
	return prefs, nil
}

// Set applies a preference update. Each supplied set fully replaces the
// prior records of its type; callers implement like-toggling by sending the
// complete new set with the song added or removed.
func (s *Service) Set(ctx context.Context, userID int, update Update) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if update.Liked != nil {
		if err := s.store.ReplaceType(ctx, userID, db.InteractionLike, *update.Liked); err != nil {
			return fmt.Errorf("replacing liked songs: %w", err)
		}
	}
	if update.Skipped != nil {
		if err := s.store.ReplaceType(ctx, userID, db.InteractionSkip, *update.Skipped); err != nil {
			return fmt.Errorf("replacing skipped songs: %w", err)
		}
	}
	return nil
}

func (s *Service) userLock(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Package catalog unifies the relational song catalog and the
// filesystem song source into one Song shape.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/modifymusic/modify/internal/db"
)

// Song sources.
const (
	SourceCatalog    = "catalog"
	SourceFilesystem = "filesystem"
)

// FilesystemIDBase is the start of the ID namespace reserved for
// filesystem-derived songs. Catalog IDs are serial and must stay below it;
// the two namespaces never collide after a merge.
const FilesystemIDBase = 10000

// Common errors.
var (
	// ErrUnknownSource is returned for a source selector outside
	// {catalog, filesystem}.
	ErrUnknownSource = errors.New("unknown song source")

	// ErrFolderNotFound is returned when the resolved mood folder does not
	// exist on disk. This is distinct from a folder that exists but holds
	// no audio files, which yields an empty list.
	ErrFolderNotFound = errors.New("mood folder not found")
)

// Song is the unified track representation produced by both sources.
type Song struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Genre       string `json:"genre"`
	MoodTag     string `json:"mood_tag"`
	EnergyLevel int    `json:"energy_level"`
	FilePath    string `json:"file_path,omitempty"`
	Source      string `json:"source"`
}

// SongStore is the relational catalog query surface the unifier consumes.
type SongStore interface {
	ListAll(ctx context.Context) ([]db.Song, error)
	ListByMood(ctx context.Context, mood string) ([]db.Song, error)
}

// Service merges the relational catalog and the filesystem source.
type Service struct {
	store SongStore
	fs    *FilesystemSource
}

// NewService creates a catalog service over the given store and
// filesystem source.
func NewService(store SongStore, fs *FilesystemSource) *Service {
	return &Service{store: store, fs: fs}
}

// Query returns the song list for a mood and source selector. An empty mood
// returns the whole stored catalog regardless of source, since scanned songs
// only exist relative to a query mood.
func (s *Service) Query(ctx context.Context, moodTag, source string) ([]Song, error) {
	if moodTag == "" {
		return s.All(ctx)
	}

	switch source {
	case SourceCatalog:
		stored, err := s.store.ListByMood(ctx, moodTag)
		if err != nil {
			return nil, fmt.Errorf("listing songs by mood: %w", err)
		}
		return fromStored(stored), nil

	case SourceFilesystem:
		return s.fs.SongsForMood(moodTag)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// All returns the full stored catalog annotated with its origin. This is the
// snapshot the recommendation ranker operates over.
func (s *Service) All(ctx context.Context) ([]Song, error) {
	stored, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}
	return fromStored(stored), nil
}

// fromStored converts stored songs into the unified shape, tagging each with
// the catalog origin.
func fromStored(stored []db.Song) []Song {
	songs := make([]Song, len(stored))
	for i, s := range stored {
		songs[i] = Song{
			ID:          s.ID,
			Title:       s.Title,
			Artist:      s.Artist,
			Genre:       s.Genre,
			MoodTag:     s.MoodTag,
			EnergyLevel: s.EnergyLevel,
			Source:      SourceCatalog,
		}
	}
	return songs
}

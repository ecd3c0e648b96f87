package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/modifymusic/modify/internal/db"
)

// fakeStore is an in-memory SongStore.
type fakeStore struct {
	songs []db.Song
	err   error
}

func (f *fakeStore) ListAll(_ context.Context) ([]db.Song, error) {
	return f.songs, f.err
}

func (f *fakeStore) ListByMood(_ context.Context, mood string) ([]db.Song, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db.Song
	for _, s := range f.songs {
		if s.MoodTag == mood {
			out = append(out, s)
		}
	}
	return out, nil
}

var storedSongs = []db.Song{
	{ID: 1, Title: "Sunny Days", Artist: "Alex Rivers", Genre: "Pop", MoodTag: "happy", EnergyLevel: 85},
	{ID: 2, Title: "Midnight Blues", Artist: "Sarah Moon", Genre: "Blues", MoodTag: "sad", EnergyLevel: 30},
	{ID: 3, Title: "Thunder Strike", Artist: "Metal Warriors", Genre: "Rock", MoodTag: "angry", EnergyLevel: 95},
	{ID: 4, Title: "Heartbreak Hotel", Artist: "Emo Kid", Genre: "Alternative", MoodTag: "sad", EnergyLevel: 40},
}

func TestQueryCatalogByMood(t *testing.T) {
	svc := NewService(&fakeStore{songs: storedSongs}, NewFilesystemSource(t.TempDir(), "/music"))

	songs, err := svc.Query(context.Background(), "sad", SourceCatalog)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(songs))
	}
	for _, s := range songs {
		if s.MoodTag != "sad" {
			t.Errorf("song %d MoodTag = %q, want only sad songs in a strict query", s.ID, s.MoodTag)
		}
		if s.Source != SourceCatalog {
			t.Errorf("song %d Source = %q, want %q", s.ID, s.Source, SourceCatalog)
		}
	}
}

func TestQueryCatalogNoMoodReturnsAll(t *testing.T) {
	svc := NewService(&fakeStore{songs: storedSongs}, NewFilesystemSource(t.TempDir(), "/music"))

	songs, err := svc.Query(context.Background(), "", SourceCatalog)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(songs) != len(storedSongs) {
		t.Errorf("got %d songs, want %d", len(songs), len(storedSongs))
	}
}

func TestQueryCatalogZeroMatches(t *testing.T) {
	svc := NewService(&fakeStore{songs: storedSongs}, NewFilesystemSource(t.TempDir(), "/music"))

	// No calm songs stored: valid empty result, not an error.
	songs, err := svc.Query(context.Background(), "calm", SourceCatalog)
	if err != nil {
		t.Fatalf("zero matches should not be an error, got %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("got %d songs, want 0", len(songs))
	}
}

func TestQueryFilesystem(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Sad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewService(&fakeStore{songs: storedSongs}, NewFilesystemSource(root, "/music"))

	songs, err := svc.Query(context.Background(), "sad", SourceFilesystem)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(songs) != 3 {
		t.Fatalf("got %d songs, want 3", len(songs))
	}
	for _, s := range songs {
		if s.MoodTag != "sad" {
			t.Errorf("song %d MoodTag = %q, want sad", s.ID, s.MoodTag)
		}
		if s.ID < FilesystemIDBase {
			t.Errorf("song ID %d collides with the catalog namespace", s.ID)
		}
	}
}

func TestQueryUnknownSource(t *testing.T) {
	svc := NewService(&fakeStore{songs: storedSongs}, NewFilesystemSource(t.TempDir(), "/music"))

	_, err := svc.Query(context.Background(), "happy", "vinyl")
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("err = %v, want ErrUnknownSource", err)
	}
}

func TestQueryStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewService(&fakeStore{err: storeErr}, NewFilesystemSource(t.TempDir(), "/music"))

	_, err := svc.Query(context.Background(), "happy", SourceCatalog)
	if !errors.Is(err, storeErr) {
		t.Fatalf("storage failure should propagate, got %v", err)
	}
}

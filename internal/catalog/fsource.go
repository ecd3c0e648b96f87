package catalog

import (
	"fmt"
	"hash/fnv"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/modifymusic/modify/internal/mood"
)

const (
	audioExt = ".mp3"

	// artistTitleSep splits "<artist> - <title>" filenames.
	artistTitleSep = " - "

	// UnknownArtist is the sentinel artist for filenames without a separator.
	UnknownArtist = "Unknown Artist"

	// filesystemGenre marks the provenance of scanned songs.
	filesystemGenre = "Filesystem"

	// DefaultScanTTL bounds how long a directory scan is reused. Directory
	// size is unbounded, so every request must not pay for a rescan.
	DefaultScanTTL = 30 * time.Second
)

// FilesystemSource synthesizes song records from a directory tree organized
// by mood folder.
type FilesystemSource struct {
	root    string
	urlBase string
	ttl     time.Duration

	// Scan cache, keyed by folder name. Negative results (missing folder)
	// are cached too.
	cacheMu sync.RWMutex
	cache   map[string]scanEntry
}

type scanEntry struct {
	songs   []Song // mood_tag left empty; stamped per request
	err     error
	expires time.Time
}

// FilesystemOption configures a FilesystemSource.
type FilesystemOption func(*FilesystemSource)

// WithScanTTL sets how long scan results are cached. Zero disables caching.
func WithScanTTL(d time.Duration) FilesystemOption {
	return func(f *FilesystemSource) {
		f.ttl = d
	}
}

// NewFilesystemSource creates a source scanning mood folders under root.
// urlBase is the public path prefix under which the files are served.
func NewFilesystemSource(root, urlBase string, opts ...FilesystemOption) *FilesystemSource {
	f := &FilesystemSource{
		root:    root,
		urlBase: urlBase,
		ttl:     DefaultScanTTL,
		cache:   make(map[string]scanEntry),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SongsForMood lists the songs in the folder resolved for the given mood.
// Every returned song inherits the query mood as its mood_tag, since the
// filesystem carries no independent tag. A missing folder is reported as
// ErrFolderNotFound; a present but empty folder yields an empty list.
func (f *FilesystemSource) SongsForMood(moodTag string) ([]Song, error) {
	folder := mood.Folder(moodTag)

	scanned, err := f.scan(folder)
	if err != nil {
		return nil, err
	}

	songs := make([]Song, len(scanned))
	for i, s := range scanned {
		s.MoodTag = moodTag
		songs[i] = s
	}
	return songs, nil
}

// scan lists a mood folder, serving from cache within the TTL.
func (f *FilesystemSource) scan(folder string) ([]Song, error) {
	if f.ttl > 0 {
		f.cacheMu.RLock()
		entry, ok := f.cache[folder]
		f.cacheMu.RUnlock()
		if ok && time.Now().Before(entry.expires) {
			return entry.songs, entry.err
		}
	}

	songs, err := f.readFolder(folder)

	if f.ttl > 0 {
		f.cacheMu.Lock()
		f.cache[folder] = scanEntry{songs: songs, err: err, expires: time.Now().Add(f.ttl)}
		f.cacheMu.Unlock()
	}

	return songs, err
}

func (f *FilesystemSource) readFolder(folder string) ([]Song, error) {
	dir := filepath.Join(f.root, folder)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
	}
	if err != nil {
		return nil, fmt.Errorf("reading mood folder: %w", err)
	}

	var songs []Song
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), audioExt) {
			continue
		}
		// Ordinal position within the reserved high range keeps filesystem
		// IDs disjoint from serial catalog IDs.
		id := FilesystemIDBase + len(songs)
		songs = append(songs, synthesize(id, entry.Name(), path.Join(f.urlBase, folder, entry.Name())))
	}
	return songs, nil
}

// synthesize builds a song record from a filename. Filenames shaped like
// "<artist> - <title>.mp3" are split on the first separator; anything else
// becomes the title with an unknown artist.
func synthesize(id int, filename, filePath string) Song {
	base := strings.TrimSuffix(filename, audioExt)
	artist := UnknownArtist
	title := base

	if idx := strings.Index(base, artistTitleSep); idx != -1 {
		artist = base[:idx]
		title = base[idx+len(artistTitleSep):]
	}

	return Song{
		ID:          id,
		Title:       title,
		Artist:      artist,
		Genre:       filesystemGenre,
		EnergyLevel: fileEnergy(filename),
		FilePath:    filePath,
		Source:      SourceFilesystem,
	}
}

// fileEnergy derives a stable 0-100 energy value from the filename. The
// value only has to be deterministic across rescans and reasonably spread
// along the axis so intensity ranking stays meaningful.
func fileEnergy(filename string) int {
	h := fnv.New32a()
	h.Write([]byte(filename))
	return int(h.Sum32() % 101)
}

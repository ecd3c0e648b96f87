// Package recommend ranks unified catalog songs against mood criteria.
package recommend

import (
	"math/rand/v2"
	"slices"

	"github.com/modifymusic/modify/internal/catalog"
	"github.com/modifymusic/modify/internal/mood"
)

const (
	// FallbackSize is how many random songs replace a zero-match result.
	// Showing something irrelevant beats showing nothing; this is a product
	// decision, not an error path.
	FallbackSize = 5

	// MaxBest caps the combined-criteria recommendation card set. Strict
	// mood queries are a separate path and are never truncated.
	MaxBest = 6

	// MoreBatchSize is how many extra songs "get more" appends.
	MoreBatchSize = 3
)

// Criteria are the ranking inputs. Every field is optional; absent fields
// skip their pipeline stage. Intensity is on a 0-10 scale and maps to a
// target energy of intensity*10.
type Criteria struct {
	Emotion   string `json:"emotion,omitempty"`
	Intensity *int   `json:"intensity,omitempty"`
	Vibe      string `json:"vibe,omitempty"`
}

// Rank filters and orders the catalog snapshot by the given criteria.
// The emotion filter keeps exact and compatibility-set matches; the vibe
// filter keeps vibe-compatible moods (composing with emotion as an
// intersection, since the filters run in sequence); intensity reorders by
// ascending distance to the target energy with a stable sort. If nothing
// survives the filters, a uniform random sample of the whole unfiltered
// input is returned instead.
func Rank(songs []catalog.Song, c Criteria) []catalog.Song {
	filtered := slices.Clone(songs)

	if c.Emotion != "" {
		acceptable := append([]string{c.Emotion}, mood.Compatible(c.Emotion)...)
		filtered = keep(filtered, acceptable)
	}

	if c.Vibe != "" {
		filtered = keep(filtered, mood.VibeMoods(c.Vibe))
	}

	if c.Intensity != nil {
		target := *c.Intensity * 10
		slices.SortStableFunc(filtered, func(a, b catalog.Song) int {
			return distance(a.EnergyLevel, target) - distance(b.EnergyLevel, target)
		})
	}

	if len(filtered) == 0 {
		return sample(songs, FallbackSize)
	}
	return filtered
}

// Best runs Rank and truncates to the recommendation card set size.
func Best(songs []catalog.Song, c Criteria) []catalog.Song {
	ranked := Rank(songs, c)
	if len(ranked) > MaxBest {
		ranked = ranked[:MaxBest]
	}
	return ranked
}

// More picks up to MoreBatchSize random songs not already shown. The result
// appends to the visible set; it never replaces it.
func More(songs []catalog.Song, shownIDs []int) []catalog.Song {
	shown := make(map[int]bool, len(shownIDs))
	for _, id := range shownIDs {
		shown[id] = true
	}

	var remaining []catalog.Song
	for _, s := range songs {
		if !shown[s.ID] {
			remaining = append(remaining, s)
		}
	}
	return sample(remaining, MoreBatchSize)
}

// keep filters songs to those whose mood tag is in the acceptable set.
func keep(songs []catalog.Song, acceptable []string) []catalog.Song {
	var out []catalog.Song
	for _, s := range songs {
		if slices.Contains(acceptable, s.MoodTag) {
			out = append(out, s)
		}
	}
	return out
}

func distance(energy, target int) int {
	if energy > target {
		return energy - target
	}
	return target - energy
}

// sample returns n songs drawn uniformly at random, or all of them when
// fewer than n exist.
func sample(songs []catalog.Song, n int) []catalog.Song {
	if len(songs) == 0 {
		return nil
	}
	shuffled := slices.Clone(songs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// Package autotag derives mood tags for untagged catalog songs by clustering
// their stored audio features.
package autotag

import (
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/modifymusic/modify/internal/db"
	"github.com/modifymusic/modify/internal/mood"
)

// Config holds clustering parameters.
type Config struct {
	NumClusters int // Number of clusters to partition untagged songs into (default: 3)
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{NumClusters: 3}
}

// songObservation wraps a Song to implement the clusters.Observation interface.
type songObservation struct {
	song   *db.Song
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// extractFeatures builds the coordinate vector for a song. Energy is stored
// on a 0-100 axis and is normalized to match the 0-1 features.
func extractFeatures(s *db.Song) clusters.Coordinates {
	return clusters.Coordinates{
		float64(s.EnergyLevel) / 100,
		s.Valence,
		s.Danceability,
		s.Acousticness,
	}
}

// Assign derives a mood tag for every untagged song, keyed by song ID.
// Songs are clustered by feature similarity so tracks with near-identical
// profiles end up with the same tag; each cluster is then labeled from its
// centroid. With fewer songs than clusters, or if partitioning fails, each
// song is labeled from its own features directly.
func Assign(songs []db.Song, cfg Config) map[int]string {
	if len(songs) == 0 {
		return nil
	}
	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}

	if len(songs) < cfg.NumClusters {
		return assignDirect(songs)
	}

	var obs clusters.Observations
	for i := range songs {
		obs = append(obs, songObservation{
			song:   &songs[i],
			coords: extractFeatures(&songs[i]),
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		// Clustering is an optimization over direct labeling, not a
		// requirement; fall back per song.
		return assignDirect(songs)
	}

	tags := make(map[int]string, len(songs))
	for _, cluster := range result {
		label := labelFor(cluster.Center)
		for _, o := range cluster.Observations {
			if so, ok := o.(songObservation); ok {
				tags[so.song.ID] = label
			}
		}
	}
	return tags
}

// assignDirect labels each song from its own feature vector.
func assignDirect(songs []db.Song) map[int]string {
	tags := make(map[int]string, len(songs))
	for i := range songs {
		tags[songs[i].ID] = labelFor(extractFeatures(&songs[i]))
	}
	return tags
}

// labelFor maps a feature centroid onto the canonical mood vocabulary.
// Quadrants on energy/valence pick the base mood; danceability and
// acousticness refine the high-energy-positive and low-energy cases.
//
//   - High energy + high valence + high danceability = energetic
//   - High energy + high valence                     = excited
//   - High energy + low valence                      = angry
//   - Low energy  + high valence + high acousticness = calm
//   - Low energy  + high valence                     = happy
//   - Low energy  + low valence                      = sad
func labelFor(center clusters.Coordinates) string {
	energy := center[0]
	valence := center[1]
	danceability := center[2]
	acousticness := center[3]

	highEnergy := energy > 0.6
	highValence := valence > 0.5

	switch {
	case highEnergy && highValence && danceability > 0.7:
		return mood.Energetic
	case highEnergy && highValence:
		return mood.Excited
	case highEnergy && !highValence:
		return mood.Angry
	case !highEnergy && highValence && acousticness > 0.6:
		return mood.Calm
	case !highEnergy && highValence:
		return mood.Happy
	default: // low energy, low valence
		return mood.Sad
	}
}

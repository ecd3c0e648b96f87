package detect

import (
	"context"
	"math/rand/v2"
)

// VibeResult is the aesthetic analysis output consumed by the vibe
// recommendation path.
type VibeResult struct {
	Vibe   string `json:"vibe"`
	Energy int    `json:"energy"` // 0-100
}

// VibeDetector analyzes the aesthetic of an image.
type VibeDetector interface {
	DetectVibe(ctx context.Context, imagePath string) (*VibeResult, error)
}

// vibes is the aesthetic vocabulary, distinct from the mood vocabulary.
var vibes = []string{"energetic", "chill", "dark", "bright", "aesthetic", "moody", "vibrant"}

// StubVibeDetector returns uniformly random values without looking at the
// image. A real aesthetic model is out of scope; this stands in behind the
// same interface so the recommendation path downstream stays unchanged.
type StubVibeDetector struct{}

// DetectVibe returns a random vibe and energy.
func (StubVibeDetector) DetectVibe(_ context.Context, _ string) (*VibeResult, error) {
	return &VibeResult{
		Vibe:   vibes[rand.IntN(len(vibes))],
		Energy: rand.IntN(101),
	}, nil
}

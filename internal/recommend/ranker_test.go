package recommend

import (
	"slices"
	"testing"

	"github.com/modifymusic/modify/internal/catalog"
)

func intPtr(i int) *int { return &i }

func mixedCatalog() []catalog.Song {
	return []catalog.Song{
		{ID: 1, Title: "Sunny Days", MoodTag: "happy", EnergyLevel: 85},
		{ID: 2, Title: "Midnight Blues", MoodTag: "sad", EnergyLevel: 30},
		{ID: 3, Title: "Thunder Strike", MoodTag: "angry", EnergyLevel: 95},
		{ID: 4, Title: "Ocean Waves", MoodTag: "relaxed", EnergyLevel: 15},
		{ID: 5, Title: "Party Tonight", MoodTag: "excited", EnergyLevel: 90},
		{ID: 6, Title: "Forest Path", MoodTag: "calm", EnergyLevel: 10},
		{ID: 7, Title: "Electric Rush", MoodTag: "energetic", EnergyLevel: 88},
		{ID: 8, Title: "Heartbreak Hotel", MoodTag: "sad", EnergyLevel: 40},
		{ID: 9, Title: "Chill Vibes", MoodTag: "calm", EnergyLevel: 25},
		{ID: 10, Title: "Fury Road", MoodTag: "angry", EnergyLevel: 60},
	}
}

func TestRankEmotionFilter(t *testing.T) {
	got := Rank(mixedCatalog(), Criteria{Emotion: "angry"})

	// angry is compatible with energetic
	wantIDs := []int{3, 7, 10}
	var gotIDs []int
	for _, s := range got {
		gotIDs = append(gotIDs, s.ID)
	}
	slices.Sort(gotIDs)
	if !slices.Equal(gotIDs, wantIDs) {
		t.Errorf("IDs = %v, want %v", gotIDs, wantIDs)
	}
}

func TestRankEmotionWithIntensity(t *testing.T) {
	got := Rank(mixedCatalog(), Criteria{Emotion: "angry", Intensity: intPtr(5)})

	// target energy 50: Fury Road (60, d=10) then Electric Rush (88, d=38)
	// then Thunder Strike (95, d=45)
	wantOrder := []int{10, 7, 3}
	var gotIDs []int
	for _, s := range got {
		gotIDs = append(gotIDs, s.ID)
	}
	if !slices.Equal(gotIDs, wantOrder) {
		t.Errorf("order = %v, want %v", gotIDs, wantOrder)
	}
}

func TestRankIntensityStableSort(t *testing.T) {
	// Two songs at equal distance on either side of the target must keep
	// their input order.
	songs := []catalog.Song{
		{ID: 1, MoodTag: "happy", EnergyLevel: 60}, // d=10
		{ID: 2, MoodTag: "happy", EnergyLevel: 40}, // d=10
		{ID: 3, MoodTag: "happy", EnergyLevel: 50}, // d=0
	}

	got := Rank(songs, Criteria{Intensity: intPtr(5)})

	wantOrder := []int{3, 1, 2}
	var gotIDs []int
	for _, s := range got {
		gotIDs = append(gotIDs, s.ID)
	}
	if !slices.Equal(gotIDs, wantOrder) {
		t.Errorf("order = %v, want %v (ties keep input order)", gotIDs, wantOrder)
	}
}

func TestRankVibeFilter(t *testing.T) {
	got := Rank(mixedCatalog(), Criteria{Vibe: "dark"})

	for _, s := range got {
		if s.MoodTag != "sad" && s.MoodTag != "angry" {
			t.Errorf("song %d MoodTag = %q, want a dark-compatible mood", s.ID, s.MoodTag)
		}
	}
	if len(got) != 4 {
		t.Errorf("got %d songs, want 4", len(got))
	}
}

func TestRankEmotionAndVibeIntersect(t *testing.T) {
	// emotion=sad keeps {sad, calm, relaxed}; vibe=dark keeps {sad, angry};
	// the intersection is the sad songs only.
	got := Rank(mixedCatalog(), Criteria{Emotion: "sad", Vibe: "dark"})

	wantIDs := []int{2, 8}
	var gotIDs []int
	for _, s := range got {
		gotIDs = append(gotIDs, s.ID)
	}
	slices.Sort(gotIDs)
	if !slices.Equal(gotIDs, wantIDs) {
		t.Errorf("IDs = %v, want %v", gotIDs, wantIDs)
	}
}

func TestRankFallbackNeverEmpty(t *testing.T) {
	songs := mixedCatalog()

	// No song matches this emotion or its (empty) compatibility set.
	got := Rank(songs, Criteria{Emotion: "bored"})

	if len(got) != FallbackSize {
		t.Fatalf("got %d songs, want exactly %d from the random fallback", len(got), FallbackSize)
	}

	// Fallback draws from the whole unfiltered catalog.
	valid := make(map[int]bool)
	for _, s := range songs {
		valid[s.ID] = true
	}
	seen := make(map[int]bool)
	for _, s := range got {
		if !valid[s.ID] {
			t.Errorf("fallback returned unknown song %d", s.ID)
		}
		if seen[s.ID] {
			t.Errorf("fallback returned song %d twice", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestRankFallbackSmallCatalog(t *testing.T) {
	songs := mixedCatalog()[:3]

	got := Rank(songs, Criteria{Emotion: "bored"})
	if len(got) != len(songs) {
		t.Errorf("got %d songs, want the full catalog of %d", len(got), len(songs))
	}
}

func TestRankNoCriteria(t *testing.T) {
	songs := mixedCatalog()
	got := Rank(songs, Criteria{})
	if len(got) != len(songs) {
		t.Errorf("got %d songs, want all %d untouched", len(got), len(songs))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	songs := mixedCatalog()
	before := slices.Clone(songs)

	Rank(songs, Criteria{Intensity: intPtr(0)})

	for i := range songs {
		if songs[i] != before[i] {
			t.Fatalf("input reordered at %d: %v", i, songs[i])
		}
	}
}

func TestBestTruncates(t *testing.T) {
	got := Best(mixedCatalog(), Criteria{})
	if len(got) != MaxBest {
		t.Errorf("got %d songs, want %d", len(got), MaxBest)
	}
}

func TestMore(t *testing.T) {
	songs := mixedCatalog()
	shown := []int{1, 2, 3, 4, 5}

	got := More(songs, shown)
	if len(got) != MoreBatchSize {
		t.Fatalf("got %d songs, want %d", len(got), MoreBatchSize)
	}
	for _, s := range got {
		if slices.Contains(shown, s.ID) {
			t.Errorf("song %d already shown", s.ID)
		}
	}
}

func TestMoreExhausted(t *testing.T) {
	songs := mixedCatalog()
	var shown []int
	for _, s := range songs {
		shown = append(shown, s.ID)
	}

	if got := More(songs, shown); len(got) != 0 {
		t.Errorf("got %d songs with everything shown, want 0", len(got))
	}
}

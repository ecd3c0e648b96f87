// Package mood defines the canonical mood vocabulary and the static
// compatibility tables used to widen strict mood matches.
package mood

// Canonical mood vocabulary.
const (
	Happy     = "happy"
	Sad       = "sad"
	Angry     = "angry"
	Relaxed   = "relaxed"
	Excited   = "excited"
	Calm      = "calm"
	Energetic = "energetic"
)

// All lists the canonical mood tags.
var All = []string{Happy, Sad, Angry, Relaxed, Excited, Calm, Energetic}

// compatibility maps a mood to its ordered fallback set. A song tagged with
// any of these moods is an acceptable soft match for the key mood.
var compatibility = map[string][]string{
	Happy:     {Excited, Energetic},
	Sad:       {Calm, Relaxed},
	Angry:     {Energetic},
	Relaxed:   {Calm, Sad},
	Excited:   {Happy, Energetic},
	Calm:      {Relaxed},
	Energetic: {Excited, Happy},
	"party":   {Happy, Excited, Energetic},
}

// vibeMoods maps an aesthetic vibe label to the mood tags it is compatible
// with. Vibes are a separate vocabulary used only by the image-analysis
// recommendation path.
var vibeMoods = map[string][]string{
	"energetic": {Energetic, Excited, Happy},
	"chill":     {Calm, Relaxed},
	"dark":      {Sad, Angry},
	"bright":    {Happy, Excited},
	"aesthetic": {Calm, Relaxed},
	"moody":     {Sad, Angry},
	"vibrant":   {Energetic, Excited, Happy},
}

// folders maps a mood to the filesystem folder holding its audio files.
var folders = map[string]string{
	Happy:     "Happy",
	Sad:       "Sad",
	"party":   "Party",
	Energetic: "Party",
	Excited:   "Party",
}

// DefaultFolder is used when a mood has no folder of its own.
const DefaultFolder = "Happy"

// Canonical normalizes a raw emotion label. "relaxed" maps to "happy"
// wherever it appears, whether it came from the classifier or from a manual
// selection; this is a product rule, not an alias. Unrecognized labels pass
// through unchanged so callers can treat an empty match as a legitimate
// zero-result outcome.
func Canonical(raw string) string {
	if raw == Relaxed {
		return Happy
	}
	return raw
}

// IsCanonical reports whether m is one of the seven canonical mood tags.
func IsCanonical(m string) bool {
	for _, c := range All {
		if m == c {
			return true
		}
	}
	return false
}

// Compatible returns the ordered fallback moods for the given mood.
// Unknown moods have no fallbacks.
func Compatible(m string) []string {
	return compatibility[m]
}

// VibeMoods returns the mood tags compatible with the given vibe label.
// Unknown vibes have no compatible moods.
func VibeMoods(vibe string) []string {
	return vibeMoods[vibe]
}

// Folder resolves a mood to its filesystem folder name, defaulting to
// DefaultFolder for moods without a dedicated folder.
func Folder(m string) string {
	if folder, ok := folders[m]; ok {
		return folder
	}
	return DefaultFolder
}

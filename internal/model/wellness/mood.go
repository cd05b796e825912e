package wellness

import "time"

// MoodEntry is a single mood check-in on the 1..5 scale.
type MoodEntry struct {
	ID         string    `json:"id"`
	Value      int       `json:"value"`
	Label      string    `json:"label"`
	Emoji      string    `json:"emoji"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

const (
	MinMood     = 1
	MaxMood     = 5
	NeutralMood = 3
)

var moodLabels = map[int]struct{ label, emoji string }{
	1: {"Very Low", "😢"},
	2: {"Low", "😔"},
	3: {"Okay", "😐"},
	4: {"Good", "🙂"},
	5: {"Great", "😊"},
}

// ValidMood reports whether value is on the mood scale.
func ValidMood(value int) bool {
	return value >= MinMood && value <= MaxMood
}

// MoodLabel returns the display label and emoji for a mood value.
func MoodLabel(value int) (string, string) {
	entry, ok := moodLabels[value]
	if !ok {
		return "", ""
	}
	return entry.label, entry.emoji
}

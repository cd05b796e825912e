package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mindcare/backend/internal/model/wellness"
)

var (
	// ErrNoData is returned when an aggregate has nothing to aggregate over.
	ErrNoData = errors.New("no data")
	// ErrScoreOutOfRange is returned for severity scores outside 1..10.
	ErrScoreOutOfRange = errors.New("severity score out of range")
)

// TrendWindow is the number of most recent entries compared against the rest.
const TrendWindow = 3

// Severity bands.
const (
	BandGood     = "Good"
	BandModerate = "Moderate"
	BandHigh     = "High"
)

// Trend compares the latest entries with everything before them.
type Trend struct {
	Available    bool    `json:"available"`
	RecentMean   float64 `json:"recentMean"`
	PreviousMean float64 `json:"previousMean"`
	Delta        float64 `json:"delta"`
}

// RollingAverage averages the window most recent moods. A window that is not
// positive or exceeds the entries averages everything.
func RollingAverage(moods []wellness.MoodEntry, window int) (float64, error) {
	if len(moods) == 0 {
		return 0, ErrNoData
	}
	sorted := newestFirst(moods)
	if window <= 0 || window > len(sorted) {
		window = len(sorted)
	}
	return meanValue(sorted[:window]), nil
}

// TrendDelta returns mean(last TrendWindow) - mean(preceding). With fewer than
// TrendWindow+1 entries the trend is reported unavailable with a zero delta.
func TrendDelta(moods []wellness.MoodEntry) Trend {
	if len(moods) < TrendWindow+1 {
		return Trend{}
	}
	sorted := newestFirst(moods)
	recent := meanValue(sorted[:TrendWindow])
	previous := meanValue(sorted[TrendWindow:])
	return Trend{
		Available:    true,
		RecentMean:   recent,
		PreviousMean: previous,
		Delta:        recent - previous,
	}
}

// Adherence returns the share of scheduled medications taken on now's date as a
// percentage. PRN medications are left out of the denominator.
func Adherence(meds []wellness.Medication, now time.Time) (float64, error) {
	taken, scheduled := DoseCounts(meds, now)
	if scheduled == 0 {
		return 0, ErrNoData
	}
	return float64(taken) / float64(scheduled) * 100, nil
}

// DoseCounts returns taken and scheduled counts over non-PRN medications.
func DoseCounts(meds []wellness.Medication, now time.Time) (taken, scheduled int) {
	for _, med := range meds {
		if !med.Scheduled() {
			continue
		}
		scheduled++
		if med.TakenOnDay(now) {
			taken++
		}
	}
	return taken, scheduled
}

// DaysUntil returns the whole days from now to target, rounded down.
func DaysUntil(target, now time.Time) int {
	return int(math.Floor(target.Sub(now).Hours() / 24))
}

// DueLabel renders a DaysUntil result for display.
func DueLabel(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "1 day ago"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// SeverityBand buckets a 1..10 score.
func SeverityBand(score int) (string, error) {
	if score < wellness.MinSeverity || score > wellness.MaxSeverity {
		return "", ErrScoreOutOfRange
	}
	switch {
	case score <= 3:
		return BandGood, nil
	case score <= 7:
		return BandModerate, nil
	default:
		return BandHigh, nil
	}
}

// RecentAverage averages moods recorded at most days whole days before now.
func RecentAverage(moods []wellness.MoodEntry, now time.Time, days int) (float64, error) {
	recent := make([]wellness.MoodEntry, 0, len(moods))
	for _, m := range moods {
		if DaysUntil(now, m.RecordedAt) <= days {
			recent = append(recent, m)
		}
	}
	if len(recent) == 0 {
		return 0, ErrNoData
	}
	return meanValue(recent), nil
}

// Encouragement picks the home-page line for a recent mood average.
func Encouragement(avg float64) string {
	switch {
	case avg >= 4:
		return "You're doing great! Keep up the positive momentum."
	case avg >= 2.5:
		return "Remember that every day is a new opportunity for growth."
	default:
		return "Be gentle with yourself. Small steps lead to big changes."
	}
}

// DayAverage is the mean mood of one calendar date.
type DayAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Entries int     `json:"entries"`
}

// DailyAverages groups moods by calendar date in loc, oldest date first.
func DailyAverages(moods []wellness.MoodEntry, loc *time.Location) []DayAverage {
	if loc == nil {
		loc = time.UTC
	}
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, m := range moods {
		key := wellness.DateKey(m.RecordedAt.In(loc))
		sums[key] += m.Value
		counts[key]++
	}

	out := make([]DayAverage, 0, len(counts))
	for key, n := range counts {
		out = append(out, DayAverage{
			Date:    key,
			Average: float64(sums[key]) / float64(n),
			Entries: n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UpcomingCount counts appointments after now and within days.
func UpcomingCount(appts []wellness.Appointment, now time.Time, days int) int {
	count := 0
	for _, a := range appts {
		if a.At.After(now) && DaysUntil(a.At, now) <= days {
			count++
		}
	}
	return count
}

func newestFirst(moods []wellness.MoodEntry) []wellness.MoodEntry {
	sorted := make([]wellness.MoodEntry, len(moods))
	copy(sorted, moods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.After(sorted[j].RecordedAt)
	})
	return sorted
}

func meanValue(moods []wellness.MoodEntry) float64 {
	total := 0
	for _, m := range moods {
		total += m.Value
	}
	return float64(total) / float64(len(moods))
}

package wellness

import (
	"context"
	"sort"
	"time"

	"github.com/mindcare/backend/internal/analysis/metrics"
	"github.com/mindcare/backend/internal/model/wellness"
)

const (
	weekWindow      = 7
	upcomingHorizon = 7
)

// MoodSummary feeds the mood cards. Averages fall back to the neutral value
// when HasData is false.
type MoodSummary struct {
	HasData       bool                 `json:"hasData"`
	Entries       int                  `json:"entries"`
	Average       float64              `json:"average"`
	WeekAverage   float64              `json:"weekAverage"`
	RecentAverage float64              `json:"recentAverage"`
	Trend         metrics.Trend        `json:"trend"`
	Encouragement string               `json:"encouragement"`
	Daily         []metrics.DayAverage `json:"daily"`
}

// MedicationSummary reports today's adherence. Adherence is 0 when no
// scheduled medication exists.
type MedicationSummary struct {
	HasData   bool    `json:"hasData"`
	Taken     int     `json:"taken"`
	Scheduled int     `json:"scheduled"`
	Adherence float64 `json:"adherence"`
}

// AppointmentView decorates an appointment with its due label.
type AppointmentView struct {
	wellness.Appointment
	DaysUntil int    `json:"daysUntil"`
	Due       string `json:"due"`
}

// Dashboard is the home page summary.
type Dashboard struct {
	GeneratedAt  time.Time          `json:"generatedAt"`
	Mood         MoodSummary        `json:"mood"`
	Medications  MedicationSummary  `json:"medications"`
	Upcoming     []AppointmentView  `json:"upcoming"`
	UpcomingWeek int                `json:"upcomingWeek"`
	Symptoms     []wellness.Symptom `json:"symptoms"`
}

// Dashboard aggregates the state at the current time.
func (s *Service) Dashboard(_ context.Context, stateID string) (Dashboard, error) {
	state, err := s.snapshot(stateID)
	if err != nil {
		return Dashboard{}, err
	}
	return buildDashboard(state, s.localNow()), nil
}

func buildDashboard(state State, now time.Time) Dashboard {
	return Dashboard{
		GeneratedAt:  now,
		Mood:         summarizeMoods(state.Moods, now),
		Medications:  summarizeMedications(state.Medications, now),
		Upcoming:     upcoming(state.Appointments, now),
		UpcomingWeek: metrics.UpcomingCount(state.Appointments, now, upcomingHorizon),
		Symptoms:     state.Symptoms,
	}
}

func summarizeMoods(moods []wellness.MoodEntry, now time.Time) MoodSummary {
	summary := MoodSummary{
		Entries:       len(moods),
		Average:       wellness.NeutralMood,
		WeekAverage:   wellness.NeutralMood,
		RecentAverage: wellness.NeutralMood,
		Trend:         metrics.TrendDelta(moods),
		Daily:         metrics.DailyAverages(moods, now.Location()),
	}

	if avg, err := metrics.RollingAverage(moods, 0); err == nil {
		summary.HasData = true
		summary.Average = avg
	}
	if avg, err := metrics.RollingAverage(moods, weekWindow); err == nil {
		summary.WeekAverage = avg
	}
	if avg, err := metrics.RecentAverage(moods, now, weekWindow); err == nil {
		summary.RecentAverage = avg
	}
	summary.Encouragement = metrics.Encouragement(summary.RecentAverage)
	return summary
}

func summarizeMedications(meds []wellness.Medication, now time.Time) MedicationSummary {
	taken, scheduled := metrics.DoseCounts(meds, now)
	summary := MedicationSummary{Taken: taken, Scheduled: scheduled}

	if pct, err := metrics.Adherence(meds, now); err == nil {
		summary.HasData = true
		summary.Adherence = pct
	}
	return summary
}

func upcoming(appts []wellness.Appointment, now time.Time) []AppointmentView {
	views := make([]AppointmentView, 0, len(appts))
	for _, appt := range appts {
		if !appt.At.After(now) {
			continue
		}
		days := metrics.DaysUntil(appt.At, now)
		views = append(views, AppointmentView{Appointment: appt, DaysUntil: days, Due: metrics.DueLabel(days)})
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].At.Before(views[j].At) })
	return views
}

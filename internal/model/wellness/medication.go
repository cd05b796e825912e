package wellness

import (
	"strings"
	"time"
)

const (
	FrequencyDaily = "Daily"
	// FrequencyPRN marks "as needed" medication, which is never part of adherence.
	FrequencyPRN = "PRN"
)

// Medication is a reminder entry. Taken state lives in TakenOn, the calendar
// date of the last dose, so a new day starts untaken without any reset.
type Medication struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage,omitempty"`
	Time       string `json:"time,omitempty"`
	Frequency  string `json:"frequency"`
	Purpose    string `json:"purpose,omitempty"`
	TakenOn    string `json:"takenOn,omitempty"`
	TakenToday bool   `json:"takenToday"`
}

// Scheduled reports whether the medication counts towards daily adherence.
func (m Medication) Scheduled() bool {
	return !strings.EqualFold(strings.TrimSpace(m.Frequency), FrequencyPRN)
}

// TakenOnDay reports whether a dose was marked on now's calendar date.
// now must already be in the user's location.
func (m Medication) TakenOnDay(now time.Time) bool {
	return m.TakenOn != "" && m.TakenOn == DateKey(now)
}

// DateKey formats the calendar date of t.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

package wellness

import "time"

// Appointment is an upcoming therapy or medical visit.
type Appointment struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	At              time.Time `json:"at"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Type            string    `json:"type,omitempty"`
	Location        string    `json:"location,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// Symptom is a severity check-in on the 1..10 scale.
type Symptom struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Severity   int       `json:"severity"`
	Band       string    `json:"band"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

const (
	MinSeverity = 1
	MaxSeverity = 10
)

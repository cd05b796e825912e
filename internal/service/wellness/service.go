package wellness

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindcare/backend/internal/analysis/metrics"
	"github.com/mindcare/backend/internal/model/wellness"
)

var (
	ErrStateNotFound   = errors.New("wellness state not found")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidMood     = errors.New("mood value must be between 1 and 5")
	ErrInvalidSeverity = errors.New("severity must be between 1 and 10")
	ErrNameRequired    = errors.New("name is required")

	ErrInvalidAppointment = errors.New("appointment time is required")
)

// State holds every record collection of one user session.
type State struct {
	ID           string
	CreatedAt    time.Time
	Moods        []wellness.MoodEntry
	Medications  []wellness.Medication
	Appointments []wellness.Appointment
	Symptoms     []wellness.Symptom
}

// Service keeps per-session wellness state in memory.
type Service struct {
	mu     sync.RWMutex
	states map[string]*State

	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates the store. loc decides where calendar days begin.
func NewService(loc *time.Location, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		states: make(map[string]*State),
		loc:    loc,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the calendar location used for day boundaries.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.loc)
}

// CreateState provisions an empty state and returns its id.
func (s *Service) CreateState(_ context.Context) (string, error) {
	state := &State{ID: uuid.NewString(), CreatedAt: s.now().UTC()}

	s.mu.Lock()
	s.states[state.ID] = state
	s.mu.Unlock()

	return state.ID, nil
}

// MoodInput is a new mood check-in.
type MoodInput struct {
	Value int    `json:"value"`
	Notes string `json:"notes"`
}

// LogMood appends a mood entry stamped with the current time.
func (s *Service) LogMood(_ context.Context, stateID string, in MoodInput) (wellness.MoodEntry, error) {
	if !wellness.ValidMood(in.Value) {
		return wellness.MoodEntry{}, ErrInvalidMood
	}
	label, emoji := wellness.MoodLabel(in.Value)
	entry := wellness.MoodEntry{
		ID:         uuid.NewString(),
		Value:      in.Value,
		Label:      label,
		Emoji:      emoji,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[stateID]
	if !ok {
		return wellness.MoodEntry{}, ErrStateNotFound
	}
	state.Moods = append(state.Moods, entry)
	return entry, nil
}

// Moods returns mood entries ordered by time.
func (s *Service) Moods(_ context.Context, stateID string) ([]wellness.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateID]
	if !ok {
		return nil, ErrStateNotFound
	}
	out := append([]wellness.MoodEntry(nil), state.Moods...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

// MedicationInput is a new medication reminder.
type MedicationInput struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Time      string `json:"time"`
	Frequency string `json:"frequency"`
	Purpose   string `json:"purpose"`
}

// AddMedication registers a reminder; frequency defaults to Daily.
func (s *Service) AddMedication(_ context.Context, stateID string, in MedicationInput) (wellness.Medication, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return wellness.Medication{}, ErrNameRequired
	}
	frequency := strings.TrimSpace(in.Frequency)
	if frequency == "" {
		frequency = wellness.FrequencyDaily
	}
	med := wellness.Medication{
		ID:        uuid.NewString(),
		Name:      name,
		Dosage:    strings.TrimSpace(in.Dosage),
		Time:      strings.TrimSpace(in.Time),
		Frequency: frequency,
		Purpose:   strings.TrimSpace(in.Purpose),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[stateID]
	if !ok {
		return wellness.Medication{}, ErrStateNotFound
	}
	state.Medications = append(state.Medications, med)
	return med, nil
}

// SetTaken marks or unmarks today's dose.
func (s *Service) SetTaken(_ context.Context, stateID, medID string, taken bool) (wellness.Medication, error) {
	now := s.localNow()

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[stateID]
	if !ok {
		return wellness.Medication{}, ErrStateNotFound
	}
	for i := range state.Medications {
		med := &state.Medications[i]
		if med.ID != medID {
			continue
		}
		if taken {
			med.TakenOn = wellness.DateKey(now)
		} else {
			med.TakenOn = ""
		}
		out := *med
		out.TakenToday = out.TakenOnDay(now)
		return out, nil
	}
	return wellness.Medication{}, ErrNotFound
}

// Medications lists reminders with TakenToday evaluated against the current date.
func (s *Service) Medications(_ context.Context, stateID string) ([]wellness.Medication, error) {
	now := s.localNow()

	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return withTakenFlag(state.Medications, now), nil
}

func withTakenFlag(meds []wellness.Medication, now time.Time) []wellness.Medication {
	out := make([]wellness.Medication, len(meds))
	for i, med := range meds {
		med.TakenToday = med.TakenOnDay(now)
		out[i] = med
	}
	return out
}

// AppointmentInput is a new appointment.
type AppointmentInput struct {
	Title           string    `json:"title"`
	At              time.Time `json:"at"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            string    `json:"type"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
}

// ScheduleAppointment stores an appointment.
func (s *Service) ScheduleAppointment(_ context.Context, stateID string, in AppointmentInput) (wellness.Appointment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return wellness.Appointment{}, ErrNameRequired
	}
	if in.At.IsZero() {
		return wellness.Appointment{}, ErrInvalidAppointment
	}
	appt := wellness.Appointment{
		ID:              uuid.NewString(),
		Title:           title,
		At:              in.At.UTC(),
		DurationMinutes: in.DurationMinutes,
		Type:            strings.TrimSpace(in.Type),
		Location:        strings.TrimSpace(in.Location),
		Notes:           strings.TrimSpace(in.Notes),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[stateID]
	if !ok {
		return wellness.Appointment{}, ErrStateNotFound
	}
	state.Appointments = append(state.Appointments, appt)
	return appt, nil
}

// Appointments lists appointments by time.
func (s *Service) Appointments(_ context.Context, stateID string) ([]wellness.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateID]
	if !ok {
		return nil, ErrStateNotFound
	}
	out := append([]wellness.Appointment(nil), state.Appointments...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// SymptomInput is a severity check-in.
type SymptomInput struct {
	Name     string `json:"name"`
	Severity int    `json:"severity"`
	Notes    string `json:"notes"`
}

// RecordSymptom stores a symptom with its severity band.
func (s *Service) RecordSymptom(_ context.Context, stateID string, in SymptomInput) (wellness.Symptom, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return wellness.Symptom{}, ErrNameRequired
	}
	band, err := metrics.SeverityBand(in.Severity)
	if err != nil {
		return wellness.Symptom{}, ErrInvalidSeverity
	}
	symptom := wellness.Symptom{
		ID:         uuid.NewString(),
		Name:       name,
		Severity:   in.Severity,
		Band:       band,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[stateID]
	if !ok {
		return wellness.Symptom{}, ErrStateNotFound
	}
	state.Symptoms = append(state.Symptoms, symptom)
	return symptom, nil
}

// Symptoms lists symptom check-ins in recording order.
func (s *Service) Symptoms(_ context.Context, stateID string) ([]wellness.Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return append([]wellness.Symptom(nil), state.Symptoms...), nil
}

// ResetDailyDoses clears taken marks left over from earlier days and returns
// how many were cleared. Reads never depend on it; it keeps stored state tidy.
func (s *Service) ResetDailyDoses(now time.Time) int {
	today := wellness.DateKey(now.In(s.loc))
	cleared := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range s.states {
		for i := range state.Medications {
			med := &state.Medications[i]
			if med.TakenOn != "" && med.TakenOn != today {
				med.TakenOn = ""
				cleared++
			}
		}
	}

	s.logger.Info("daily dose rollover", zap.String("date", today), zap.Int("cleared", cleared))
	return cleared
}

func (s *Service) snapshot(stateID string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateID]
	if !ok {
		return State{}, ErrStateNotFound
	}
	return State{
		ID:           state.ID,
		CreatedAt:    state.CreatedAt,
		Moods:        append([]wellness.MoodEntry(nil), state.Moods...),
		Medications:  append([]wellness.Medication(nil), state.Medications...),
		Appointments: append([]wellness.Appointment(nil), state.Appointments...),
		Symptoms:     append([]wellness.Symptom(nil), state.Symptoms...),
	}, nil
}

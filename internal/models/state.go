package models

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNegativeValue   = errors.New("value must not be negative")
	ErrInvalidTemplate = errors.New("invalid template")
)

// Bodyweight bounds accepted at the input boundary.
const (
	MinBodyweight = 50.0
	MaxBodyweight = 500.0
)

// AppState is the whole persisted aggregate.
type AppState struct {
	NextWorkout WorkoutType               `json:"next_workout"`
	Templates   []WorkoutTemplate         `json:"templates"`
	History     []WorkoutSession          `json:"history"`
	Records     map[string]PersonalRecord `json:"records"`
}

// NewAppState returns first-run state: rotation at the first workout type,
// no history and no records.
func NewAppState(templates []WorkoutTemplate) *AppState {
	return &AppState{
		NextWorkout: AllWorkoutTypes()[0],
		Templates:   templates,
		History:     []WorkoutSession{},
		Records:     make(map[string]PersonalRecord),
	}
}

// Normalize repairs decoded state: nil collections and an unknown rotation
// pointer.
func (s *AppState) Normalize() {
	if s.History == nil {
		s.History = []WorkoutSession{}
	}
	if s.Records == nil {
		s.Records = make(map[string]PersonalRecord)
	}
	if !s.NextWorkout.Valid() {
		s.NextWorkout = AllWorkoutTypes()[0]
	}
}

// TemplateIndex returns the index of the template for t, or -1.
func (s *AppState) TemplateIndex(t WorkoutType) int {
	for i, tmpl := range s.Templates {
		if tmpl.Type == t {
			return i
		}
	}
	return -1
}

// Template returns the template for t.
func (s *AppState) Template(t WorkoutType) (WorkoutTemplate, bool) {
	if i := s.TemplateIndex(t); i >= 0 {
		return s.Templates[i], true
	}
	return WorkoutTemplate{}, false
}

// ValidBodyweight reports whether w lies within the accepted bounds.
func ValidBodyweight(w float64) bool {
	return w >= MinBodyweight && w <= MaxBodyweight
}

// ParseBodyweight turns free-text input into a bodyweight. Blank,
// non-numeric and out-of-range input all mean "not provided".
func ParseBodyweight(input string) *float64 {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !ValidBodyweight(v) {
		return nil
	}
	return &v
}

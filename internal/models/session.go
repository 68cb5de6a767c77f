package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseSet is one planned or performed set. A set is either rep/weight
// based or time based; nil fields are "not entered".
type ExerciseSet struct {
	ID              uuid.UUID `json:"id"`
	Reps            *int      `json:"reps,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	Kind            SetKind   `json:"kind"`
	Completed       bool      `json:"completed"`
}

// NewSet returns an empty, uncompleted set of the given kind.
func NewSet(kind SetKind) ExerciseSet {
	return ExerciseSet{ID: uuid.New(), Kind: kind}
}

// IsTimeBased reports whether the set is measured in seconds.
func (s ExerciseSet) IsTimeBased() bool {
	return s.DurationSeconds != nil
}

// Volume is reps × weight for a completed working set with both values
// entered, otherwise zero.
func (s ExerciseSet) Volume() float64 {
	if s.Kind != SetWorking || !s.Completed || s.Reps == nil || s.Weight == nil {
		return 0
	}
	return float64(*s.Reps) * *s.Weight
}

// HasLoad reports whether both reps and weight are entered.
func (s ExerciseSet) HasLoad() bool {
	return s.Reps != nil && s.Weight != nil
}

// Validate rejects negative values.
func (s ExerciseSet) Validate() error {
	if s.Reps != nil && *s.Reps < 0 {
		return ErrNegativeValue
	}
	if s.Weight != nil && *s.Weight < 0 {
		return ErrNegativeValue
	}
	if s.DurationSeconds != nil && *s.DurationSeconds < 0 {
		return ErrNegativeValue
	}
	return nil
}

// LoggedExercise is one exercise instance inside a session. Name is the
// join key for history and PR lookups and is compared exactly.
type LoggedExercise struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Category       Category      `json:"category"`
	Sets           []ExerciseSet `json:"sets"`
	Notes          string        `json:"notes"`
	RestSeconds    int           `json:"rest_seconds"`
	SupersetPairID *uuid.UUID    `json:"superset_pair_id,omitempty"`
}

// Rest returns the rest override, or the category default when unset.
func (e LoggedExercise) Rest() time.Duration {
	if e.RestSeconds > 0 {
		return time.Duration(e.RestSeconds) * time.Second
	}
	return e.Category.DefaultRest()
}

// WorkingSets returns the working sets in order.
func (e LoggedExercise) WorkingSets() []ExerciseSet {
	var out []ExerciseSet
	for _, s := range e.Sets {
		if s.Kind == SetWorking {
			out = append(out, s)
		}
	}
	return out
}

// CompletedWorkingSets returns the completed working sets in order.
func (e LoggedExercise) CompletedWorkingSets() []ExerciseSet {
	var out []ExerciseSet
	for _, s := range e.Sets {
		if s.Kind == SetWorking && s.Completed {
			out = append(out, s)
		}
	}
	return out
}

// TotalVolume sums the volume of every set.
func (e LoggedExercise) TotalVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += s.Volume()
	}
	return total
}

// BestSet returns the completed working set with the greatest (weight, reps)
// pair, or nil if no completed working set has both values. The first of
// several equal sets wins.
func (e LoggedExercise) BestSet() *ExerciseSet {
	var best *ExerciseSet
	for i := range e.Sets {
		s := e.Sets[i]
		if s.Kind != SetWorking || !s.Completed || !s.HasLoad() {
			continue
		}
		if best == nil || loadGreater(*s.Weight, *s.Reps, *best.Weight, *best.Reps) {
			best = &s
		}
	}
	return best
}

// SetIndex returns the position of the set with the given ID, or -1.
func (e LoggedExercise) SetIndex(id uuid.UUID) int {
	for i, s := range e.Sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// WorkoutSession is one training session. EndTime is set iff Completed.
type WorkoutSession struct {
	ID         uuid.UUID        `json:"id"`
	Type       WorkoutType      `json:"type"`
	Exercises  []LoggedExercise `json:"exercises"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    *time.Time       `json:"end_time,omitempty"`
	Energy     *Rating          `json:"energy,omitempty"`
	Sleep      *Rating          `json:"sleep,omitempty"`
	Bodyweight *float64         `json:"bodyweight,omitempty"`
	Notes      string           `json:"notes"`
	Completed  bool             `json:"completed"`
}

// Duration is defined only when the session has both start and end times.
func (w WorkoutSession) Duration() (time.Duration, bool) {
	if w.EndTime == nil || w.StartTime.IsZero() {
		return 0, false
	}
	return w.EndTime.Sub(w.StartTime), true
}

// TotalVolume sums every exercise's volume.
func (w WorkoutSession) TotalVolume() float64 {
	var total float64
	for _, e := range w.Exercises {
		total += e.TotalVolume()
	}
	return total
}

// MainLift returns the first main-lift exercise, if any.
func (w WorkoutSession) MainLift() *LoggedExercise {
	for i := range w.Exercises {
		if w.Exercises[i].Category == CategoryMainLift {
			return &w.Exercises[i]
		}
	}
	return nil
}

// ExerciseIndex returns the position of the exercise with the given ID, or -1.
func (w WorkoutSession) ExerciseIndex(id uuid.UUID) int {
	for i, e := range w.Exercises {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ExerciseByName returns the first exercise with exactly this name.
func (w WorkoutSession) ExerciseByName(name string) *LoggedExercise {
	for i := range w.Exercises {
		if w.Exercises[i].Name == name {
			return &w.Exercises[i]
		}
	}
	return nil
}

// Finish stamps the end time and marks the session completed.
func (w *WorkoutSession) Finish(at time.Time) {
	w.EndTime = &at
	w.Completed = true
}

// Clone returns a deep copy sharing no slices or pointers with w.
func (w WorkoutSession) Clone() WorkoutSession {
	c := w
	c.EndTime = clonePtr(w.EndTime)
	c.Energy = clonePtr(w.Energy)
	c.Sleep = clonePtr(w.Sleep)
	c.Bodyweight = clonePtr(w.Bodyweight)
	if w.Exercises != nil {
		c.Exercises = make([]LoggedExercise, len(w.Exercises))
		for i, e := range w.Exercises {
			c.Exercises[i] = e.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the exercise.
func (e LoggedExercise) Clone() LoggedExercise {
	c := e
	c.SupersetPairID = clonePtr(e.SupersetPairID)
	if e.Sets != nil {
		c.Sets = make([]ExerciseSet, len(e.Sets))
		for i, s := range e.Sets {
			c.Sets[i] = s.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the set.
func (s ExerciseSet) Clone() ExerciseSet {
	c := s
	c.Reps = clonePtr(s.Reps)
	c.Weight = clonePtr(s.Weight)
	c.DurationSeconds = clonePtr(s.DurationSeconds)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

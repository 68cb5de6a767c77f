package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExerciseTemplate is the blueprint for one exercise in a workout.
type ExerciseTemplate struct {
	ID                     uuid.UUID `json:"id" yaml:"-"`
	Name                   string    `json:"name" yaml:"name"`
	Category               Category  `json:"category" yaml:"category"`
	DefaultSets            int       `json:"default_sets" yaml:"sets"`
	DefaultReps            *int      `json:"default_reps,omitempty" yaml:"reps,omitempty"`
	DefaultDurationSeconds *int      `json:"default_duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	RestSeconds            int       `json:"rest_seconds" yaml:"rest_seconds,omitempty"`
}

// Rest returns the configured rest, falling back to the category default.
func (e ExerciseTemplate) Rest() time.Duration {
	if e.RestSeconds > 0 {
		return time.Duration(e.RestSeconds) * time.Second
	}
	return e.Category.DefaultRest()
}

// WorkoutTemplate is the recipe used to start a session of one type.
type WorkoutTemplate struct {
	ID        uuid.UUID          `json:"id" yaml:"-"`
	Type      WorkoutType        `json:"type" yaml:"type"`
	Exercises []ExerciseTemplate `json:"exercises" yaml:"exercises"`
}

// Validate checks the template is usable for starting a session.
func (t WorkoutTemplate) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: workout type %q", ErrInvalidTemplate, t.Type)
	}
	for i, e := range t.Exercises {
		if e.Name == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalidTemplate, i+1)
		}
		if !e.Category.Valid() {
			return fmt.Errorf("%w: %s: category %q", ErrInvalidTemplate, e.Name, e.Category)
		}
		if e.DefaultSets < 1 {
			return fmt.Errorf("%w: %s: sets must be at least 1", ErrInvalidTemplate, e.Name)
		}
		if (e.DefaultReps != nil && *e.DefaultReps < 0) ||
			(e.DefaultDurationSeconds != nil && *e.DefaultDurationSeconds < 0) ||
			e.RestSeconds < 0 {
			return fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, e.Name, ErrNegativeValue)
		}
	}
	return nil
}

// WithIDs fills in missing identities, e.g. for templates read from YAML.
func (t WorkoutTemplate) WithIDs() WorkoutTemplate {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	exercises := make([]ExerciseTemplate, len(t.Exercises))
	for i, e := range t.Exercises {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.RestSeconds == 0 {
			e.RestSeconds = int(e.Category.DefaultRest() / time.Second)
		}
		exercises[i] = e
	}
	t.Exercises = exercises
	return t
}

func blueprint(name string, cat Category, sets, reps int) ExerciseTemplate {
	return ExerciseTemplate{
		ID:          uuid.New(),
		Name:        name,
		Category:    cat,
		DefaultSets: sets,
		DefaultReps: Ptr(reps),
		RestSeconds: int(cat.DefaultRest() / time.Second),
	}
}

// DefaultTemplates returns the built-in A/B/C program, with fresh identities.
func DefaultTemplates() []WorkoutTemplate {
	return []WorkoutTemplate{
		{
			ID:   uuid.New(),
			Type: WorkoutA,
			Exercises: []ExerciseTemplate{
				blueprint("Bench Press", CategoryMainLift, 5, 5),
				blueprint("Incline Dumbbell Press", CategoryCompound, 3, 10),
				blueprint("Cable Fly", CategoryAccessory, 3, 12),
				blueprint("Tricep Pushdown", CategoryAccessory, 3, 12),
				blueprint("Lateral Raise", CategoryAccessory, 3, 15),
			},
		},
		{
			ID:   uuid.New(),
			Type: WorkoutB,
			Exercises: []ExerciseTemplate{
				blueprint("Squat", CategoryMainLift, 5, 5),
				blueprint("Romanian Deadlift", CategoryCompound, 3, 8),
				blueprint("Leg Press", CategoryCompound, 3, 10),
				blueprint("Leg Curl", CategoryAccessory, 3, 12),
				blueprint("Calf Raise", CategoryAccessory, 3, 15),
			},
		},
		{
			ID:   uuid.New(),
			Type: WorkoutC,
			Exercises: []ExerciseTemplate{
				blueprint("Overhead Press", CategoryMainLift, 5, 5),
				blueprint("Barbell Row", CategoryCompound, 3, 8),
				blueprint("Pull-ups", CategoryCompound, 3, 8),
				blueprint("Face Pull", CategoryAccessory, 3, 15),
				blueprint("Bicep Curl", CategoryAccessory, 3, 12),
			},
		},
	}
}

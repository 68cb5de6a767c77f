package ledger

import (
	"fmt"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/progression"
	"github.com/google/uuid"
)

// SetEdit carries the user-entered values for one set. Every field replaces
// the stored value; nil clears it.
type SetEdit struct {
	Reps            *int     `json:"reps"`
	Weight          *float64 `json:"weight"`
	DurationSeconds *int     `json:"duration_seconds"`
}

// SetPatch changes only the fields whose Has flag is set; a flagged field
// with a nil value clears it.
type SetPatch struct {
	Reps            *int
	Weight          *float64
	DurationSeconds *int

	HasReps            bool
	HasWeight          bool
	HasDurationSeconds bool
}

// Full returns a patch that replaces every field with the edit's values.
func (e SetEdit) Full() SetPatch {
	return SetPatch{
		Reps:               e.Reps,
		Weight:             e.Weight,
		DurationSeconds:    e.DurationSeconds,
		HasReps:            true,
		HasWeight:          true,
		HasDurationSeconds: true,
	}
}

// RestCue tells the caller whether to start the rest timer after a toggle.
type RestCue struct {
	Start    bool          `json:"start"`
	Duration time.Duration `json:"-"`
	Seconds  int           `json:"seconds"`
	Exercise string        `json:"exercise,omitempty"`
}

// CompletionInput is the context captured when finishing a session.
// Bodyweight outside the accepted bounds is dropped.
type CompletionInput struct {
	Energy     *models.Rating
	Sleep      *models.Rating
	Bodyweight *float64
	Notes      string
}

// CompletionResult describes a finished session.
type CompletionResult struct {
	Session     models.WorkoutSession   `json:"session"`
	NewRecords  []models.PersonalRecord `json:"new_records"`
	NextWorkout models.WorkoutType      `json:"next_workout"`
}

// locate must be called with mu held.
func (s *Store) locate(exerciseID, setID uuid.UUID) (*models.LoggedExercise, *models.ExerciseSet, error) {
	ex, err := s.exercise(exerciseID)
	if err != nil {
		return nil, nil, err
	}
	j := ex.SetIndex(setID)
	if j < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrSetNotFound, setID)
	}
	return ex, &ex.Sets[j], nil
}

// exercise must be called with mu held.
func (s *Store) exercise(exerciseID uuid.UUID) (*models.LoggedExercise, error) {
	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	i := s.active.ExerciseIndex(exerciseID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	return &s.active.Exercises[i], nil
}

// EditSet replaces the reps, weight and duration of one set in the active
// session. Negative values are rejected.
func (s *Store) EditSet(exerciseID, setID uuid.UUID, edit SetEdit) error {
	return s.PatchSet(exerciseID, setID, edit.Full())
}

// PatchSet updates the named fields of one set in the active session and
// leaves the others as they are. Negative values are rejected and nothing
// changes.
func (s *Store) PatchSet(exerciseID, setID uuid.UUID, patch SetPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, set, err := s.locate(exerciseID, setID)
	if err != nil {
		return err
	}
	updated := *set
	if patch.HasReps {
		updated.Reps = patch.Reps
	}
	if patch.HasWeight {
		updated.Weight = patch.Weight
	}
	if patch.HasDurationSeconds {
		updated.DurationSeconds = patch.DurationSeconds
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	*set = updated.Clone()
	return nil
}

// ToggleSet flips the completion of one set. When a working set becomes
// completed the cue asks for the exercise's rest period.
func (s *Store) ToggleSet(exerciseID, setID uuid.UUID) (RestCue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, set, err := s.locate(exerciseID, setID)
	if err != nil {
		return RestCue{}, err
	}
	set.Completed = !set.Completed
	if !set.Completed || set.Kind != models.SetWorking {
		return RestCue{}, nil
	}
	rest := ex.Rest()
	return RestCue{
		Start:    true,
		Duration: rest,
		Seconds:  int(rest / time.Second),
		Exercise: ex.Name,
	}, nil
}

// AddSet appends a working set to an exercise of the active session, copying
// the last set's values.
func (s *Store) AddSet(exerciseID uuid.UUID) (models.ExerciseSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, err := s.exercise(exerciseID)
	if err != nil {
		return models.ExerciseSet{}, err
	}
	return progression.AddSet(ex).Clone(), nil
}

// SetExerciseNotes replaces the free-text notes of an exercise.
func (s *Store) SetExerciseNotes(exerciseID uuid.UUID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, err := s.exercise(exerciseID)
	if err != nil {
		return err
	}
	ex.Notes = notes
	return nil
}

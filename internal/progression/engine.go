// Package progression builds new sessions from templates, pre-filled with
// the user's most recent performance, and steps the workout rotation.
package progression

import (
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/google/uuid"
)

// warmupSets is the number of empty warm-up sets placed before a main lift.
const warmupSets = 2

// LastCompleted returns the most recent completed session of type t by start
// time, or nil if there is none.
func LastCompleted(history []models.WorkoutSession, t models.WorkoutType) *models.WorkoutSession {
	var last *models.WorkoutSession
	for i := range history {
		s := &history[i]
		if s.Type != t || !s.Completed {
			continue
		}
		if last == nil || s.StartTime.After(last.StartTime) {
			last = s
		}
	}
	return last
}

// BuildSession creates an uncompleted session for tmpl starting at now.
// Exercises follow template order; each is pre-filled from the same-named
// exercise of the last completed session of the template's type. history is
// only read.
func BuildSession(tmpl models.WorkoutTemplate, history []models.WorkoutSession, now time.Time) models.WorkoutSession {
	ref := LastCompleted(history, tmpl.Type)

	exercises := make([]models.LoggedExercise, 0, len(tmpl.Exercises))
	for _, bp := range tmpl.Exercises {
		var previous []models.ExerciseSet
		if ref != nil {
			if ex := ref.ExerciseByName(bp.Name); ex != nil {
				previous = ex.WorkingSets()
			}
		}
		exercises = append(exercises, models.LoggedExercise{
			ID:          uuid.New(),
			Name:        bp.Name,
			Category:    bp.Category,
			Sets:        prefillSets(bp, previous),
			RestSeconds: int(bp.Rest() / time.Second),
		})
	}

	return models.WorkoutSession{
		ID:        uuid.New(),
		Type:      tmpl.Type,
		Exercises: exercises,
		StartTime: now,
	}
}

// prefillSets emits warm-ups for main lifts followed by the blueprint's
// working sets. Reps come from the blueprint target when fixed, otherwise
// from the previous set at the same position; weight always comes from the
// previous set at the same position.
func prefillSets(bp models.ExerciseTemplate, previous []models.ExerciseSet) []models.ExerciseSet {
	var sets []models.ExerciseSet
	if bp.Category == models.CategoryMainLift {
		for range warmupSets {
			sets = append(sets, models.NewSet(models.SetWarmup))
		}
	}

	for i := 0; i < bp.DefaultSets; i++ {
		s := models.NewSet(models.SetWorking)
		var prev *models.ExerciseSet
		if i < len(previous) {
			prev = &previous[i]
		}

		switch {
		case bp.DefaultReps != nil:
			s.Reps = models.Ptr(*bp.DefaultReps)
		case prev != nil && prev.Reps != nil:
			s.Reps = models.Ptr(*prev.Reps)
		}
		if prev != nil && prev.Weight != nil {
			s.Weight = models.Ptr(*prev.Weight)
		}
		if bp.DefaultDurationSeconds != nil {
			s.DurationSeconds = models.Ptr(*bp.DefaultDurationSeconds)
		}
		sets = append(sets, s)
	}
	return sets
}

// Advance returns the workout that follows a completed one.
func Advance(completed models.WorkoutType) models.WorkoutType {
	return completed.Next()
}

// AddSet appends an uncompleted working set to ex copying the last set's
// reps and weight, and returns the new set.
func AddSet(ex *models.LoggedExercise) models.ExerciseSet {
	s := models.NewSet(models.SetWorking)
	if n := len(ex.Sets); n > 0 {
		last := ex.Sets[n-1]
		if last.Reps != nil {
			s.Reps = models.Ptr(*last.Reps)
		}
		if last.Weight != nil {
			s.Weight = models.Ptr(*last.Weight)
		}
		if last.DurationSeconds != nil {
			s.DurationSeconds = models.Ptr(*last.DurationSeconds)
		}
	}
	ex.Sets = append(ex.Sets, s)
	return s
}

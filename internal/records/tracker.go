// Package records tracks personal records per exercise name.
package records

import (
	"sort"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/google/uuid"
)

// Evaluate compares each exercise's best set in session against records and
// writes a record only when it is new or strictly better. It returns the
// records written by this call, one per exercise name in first-seen order.
// Re-evaluating the same session writes nothing.
func Evaluate(records map[string]models.PersonalRecord, session models.WorkoutSession, date time.Time) []models.PersonalRecord {
	var names []string
	won := make(map[string]bool)
	for _, ex := range session.Exercises {
		best := ex.BestSet()
		if best == nil {
			continue
		}
		candidate := models.PersonalRecord{
			ID:           uuid.New(),
			ExerciseName: ex.Name,
			Weight:       *best.Weight,
			Reps:         *best.Reps,
			Date:         date,
			SessionID:    session.ID,
		}
		if existing, ok := records[ex.Name]; ok && !candidate.Beats(existing) {
			continue
		}
		records[ex.Name] = candidate
		if !won[ex.Name] {
			won[ex.Name] = true
			names = append(names, ex.Name)
		}
	}
	written := make([]models.PersonalRecord, 0, len(names))
	for _, name := range names {
		written = append(written, records[name])
	}
	return written
}

// IsPR reports whether set would beat the stored record for ex. Exercises
// without a record yet are not flagged.
func IsPR(records map[string]models.PersonalRecord, ex models.LoggedExercise, set models.ExerciseSet) bool {
	if set.Kind != models.SetWorking || !set.Completed || !set.HasLoad() {
		return false
	}
	existing, ok := records[ex.Name]
	if !ok {
		return false
	}
	return models.PersonalRecord{Weight: *set.Weight, Reps: *set.Reps}.Beats(existing)
}

// SetBy returns the records currently held by the given session, by name.
func SetBy(records map[string]models.PersonalRecord, sessionID uuid.UUID) []models.PersonalRecord {
	var out []models.PersonalRecord
	for _, r := range records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseName < out[j].ExerciseName })
	return out
}

// Top returns up to n records ordered by weight, heaviest first. n <= 0
// returns all of them.
func Top(records map[string]models.PersonalRecord, n int) []models.PersonalRecord {
	out := make([]models.PersonalRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].ExerciseName < out[j].ExerciseName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Clone copies the record table.
func Clone(records map[string]models.PersonalRecord) map[string]models.PersonalRecord {
	out := make(map[string]models.PersonalRecord, len(records))
	for k, v := range records {
		out[k] = v
	}
	return out
}

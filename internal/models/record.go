package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalRecord is the best known (weight, reps) pair for one exercise name.
type PersonalRecord struct {
	ID           uuid.UUID `json:"id"`
	ExerciseName string    `json:"exercise_name"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
	SessionID    uuid.UUID `json:"session_id"`
}

// Beats reports whether r strictly improves on other: heavier, or the same
// weight for more reps. Ties never beat.
func (r PersonalRecord) Beats(other PersonalRecord) bool {
	return loadGreater(r.Weight, r.Reps, other.Weight, other.Reps)
}

func loadGreater(w1 float64, r1 int, w2 float64, r2 int) bool {
	if w1 != w2 {
		return w1 > w2
	}
	return r1 > r2
}

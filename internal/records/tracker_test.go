package records

import (
	"testing"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/google/uuid"
)

func session(name string, sets ...[2]float64) models.WorkoutSession {
	ex := models.LoggedExercise{ID: uuid.New(), Name: name, Category: models.CategoryMainLift}
	for _, s := range sets {
		set := models.NewSet(models.SetWorking)
		set.Reps = models.Ptr(int(s[0]))
		set.Weight = models.Ptr(s[1])
		set.Completed = true
		ex.Sets = append(ex.Sets, set)
	}
	return models.WorkoutSession{ID: uuid.New(), Type: models.WorkoutA, Exercises: []models.LoggedExercise{ex}}
}

var today = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// TestEvaluateInsertsAndKeepsBetter covers first-record insertion and that a
// lighter later session leaves the record untouched.
func TestEvaluateInsertsAndKeepsBetter(t *testing.T) {
	recs := map[string]models.PersonalRecord{}
	first := session("Bench Press", [2]float64{5, 140}, [2]float64{5, 145})

	written := Evaluate(recs, first, today)
	if len(written) != 1 {
		t.Fatalf("written = %d, want 1", len(written))
	}
	got := recs["Bench Press"]
	if got.Weight != 145 || got.Reps != 5 || got.SessionID != first.ID || !got.Date.Equal(today) {
		t.Errorf("record = %+v, want 145×5 from first session", got)
	}

	second := session("Bench Press", [2]float64{5, 140})
	if written := Evaluate(recs, second, today.AddDate(0, 0, 2)); len(written) != 0 {
		t.Errorf("lighter session wrote %d records", len(written))
	}
	if recs["Bench Press"].SessionID != first.ID {
		t.Error("record was replaced by a worse set")
	}
}

// TestEvaluateIdempotent verifies that evaluating the same session twice
// writes nothing the second time.
func TestEvaluateIdempotent(t *testing.T) {
	recs := map[string]models.PersonalRecord{}
	s := session("Squat", [2]float64{5, 225})
	Evaluate(recs, s, today)
	before := recs["Squat"]
	if written := Evaluate(recs, s, today.AddDate(0, 0, 1)); len(written) != 0 {
		t.Errorf("second evaluation wrote %d records", len(written))
	}
	if recs["Squat"] != before {
		t.Error("record changed on re-evaluation")
	}
}

// TestEvaluateRepsTiebreak verifies that more reps at equal weight replaces
// the record but an exact tie does not.
func TestEvaluateRepsTiebreak(t *testing.T) {
	recs := map[string]models.PersonalRecord{}
	Evaluate(recs, session("OHP", [2]float64{5, 95}), today)
	tie := session("OHP", [2]float64{5, 95})
	if len(Evaluate(recs, tie, today)) != 0 {
		t.Error("tie replaced the record")
	}
	more := session("OHP", [2]float64{6, 95})
	if len(Evaluate(recs, more, today)) != 1 || recs["OHP"].Reps != 6 {
		t.Errorf("record = %+v, want 95×6", recs["OHP"])
	}
}

// TestEvaluateSkipsExercisesWithoutBestSet verifies that uncompleted and
// unloaded sets never create records.
func TestEvaluateSkipsExercisesWithoutBestSet(t *testing.T) {
	s := session("Plank")
	set := models.NewSet(models.SetWorking)
	set.DurationSeconds = models.Ptr(60)
	set.Completed = true
	s.Exercises[0].Sets = []models.ExerciseSet{set}

	recs := map[string]models.PersonalRecord{}
	if written := Evaluate(recs, s, today); len(written) != 0 || len(recs) != 0 {
		t.Errorf("timed set produced a record: %+v", recs)
	}
}

// TestIsPR verifies live PR marking against the stored record.
func TestIsPR(t *testing.T) {
	recs := map[string]models.PersonalRecord{"Row": {ExerciseName: "Row", Weight: 135, Reps: 8}}
	ex := models.LoggedExercise{Name: "Row"}
	mk := func(reps int, w float64, done bool) models.ExerciseSet {
		s := models.NewSet(models.SetWorking)
		s.Reps, s.Weight, s.Completed = models.Ptr(reps), models.Ptr(w), done
		return s
	}
	if !IsPR(recs, ex, mk(9, 135, true)) {
		t.Error("135×9 should beat 135×8")
	}
	if IsPR(recs, ex, mk(8, 135, true)) {
		t.Error("tie flagged as PR")
	}
	if IsPR(recs, ex, mk(5, 200, false)) {
		t.Error("uncompleted set flagged as PR")
	}
	if IsPR(recs, models.LoggedExercise{Name: "Curl"}, mk(5, 200, true)) {
		t.Error("exercise without a record flagged as PR")
	}
}

// TestTopAndSetBy verifies ordering helpers.
func TestTopAndSetBy(t *testing.T) {
	sid := uuid.New()
	recs := map[string]models.PersonalRecord{
		"Squat":    {ExerciseName: "Squat", Weight: 275, SessionID: sid},
		"Bench":    {ExerciseName: "Bench", Weight: 185},
		"Deadlift": {ExerciseName: "Deadlift", Weight: 315, SessionID: sid},
	}
	top := Top(recs, 2)
	if len(top) != 2 || top[0].ExerciseName != "Deadlift" || top[1].ExerciseName != "Squat" {
		t.Errorf("Top(2) = %+v", top)
	}
	by := SetBy(recs, sid)
	if len(by) != 2 || by[0].ExerciseName != "Deadlift" || by[1].ExerciseName != "Squat" {
		t.Errorf("SetBy() = %+v", by)
	}
}

// TestEvaluateRepeatedExerciseName verifies a session logging the same
// exercise twice reports one record per name, the one left in the table.
func TestEvaluateRepeatedExerciseName(t *testing.T) {
	s := session("Bench Press", [2]float64{5, 135})
	s.Exercises = append(s.Exercises, session("Bench Press", [2]float64{5, 145}).Exercises...)

	recs := map[string]models.PersonalRecord{}
	written := Evaluate(recs, s, today)
	if len(written) != 1 {
		t.Fatalf("written = %+v, want one record", written)
	}
	if written[0].Weight != 145 || written[0].ID != recs["Bench Press"].ID {
		t.Errorf("written = %+v, table = %+v", written[0], recs["Bench Press"])
	}
}

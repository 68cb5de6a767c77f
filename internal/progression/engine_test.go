package progression

import (
	"testing"
	"time"

	"github.com/claude/ironledger/internal/models"
)

func completedSet(reps int, weight float64) models.ExerciseSet {
	s := models.NewSet(models.SetWorking)
	s.Reps = models.Ptr(reps)
	s.Weight = models.Ptr(weight)
	s.Completed = true
	return s
}

func pastSession(t models.WorkoutType, start time.Time, exercises ...models.LoggedExercise) models.WorkoutSession {
	s := models.WorkoutSession{Type: t, StartTime: start, Exercises: exercises}
	s.Finish(start.Add(time.Hour))
	return s
}

var day = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

// TestBuildSessionPrefillsMainLift covers the canonical pre-fill example: two
// warm-ups followed by five working sets carrying the previous weights.
func TestBuildSessionPrefillsMainLift(t *testing.T) {
	tmpl := models.WorkoutTemplate{
		Type: models.WorkoutA,
		Exercises: []models.ExerciseTemplate{
			{Name: "Bench Press", Category: models.CategoryMainLift, DefaultSets: 5},
		},
	}
	prev := pastSession(models.WorkoutA, day, models.LoggedExercise{
		Name:     "Bench Press",
		Category: models.CategoryMainLift,
		Sets: []models.ExerciseSet{
			completedSet(5, 135), completedSet(5, 140), completedSet(5, 140),
			completedSet(3, 140), completedSet(5, 140),
		},
	})

	s := BuildSession(tmpl, []models.WorkoutSession{prev}, day.AddDate(0, 0, 2))
	if len(s.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(s.Exercises))
	}
	sets := s.Exercises[0].Sets
	if len(sets) != 7 {
		t.Fatalf("sets = %d, want 7", len(sets))
	}
	for i := 0; i < 2; i++ {
		if sets[i].Kind != models.SetWarmup || sets[i].Reps != nil || sets[i].Weight != nil {
			t.Errorf("set %d should be an empty warm-up", i)
		}
	}
	wantWeights := []float64{135, 140, 140, 140, 140}
	wantReps := []int{5, 5, 5, 3, 5}
	for i, w := range wantWeights {
		set := sets[i+2]
		if set.Kind != models.SetWorking || set.Completed {
			t.Errorf("working set %d: kind=%s completed=%v", i, set.Kind, set.Completed)
		}
		if set.Weight == nil || *set.Weight != w {
			t.Errorf("working set %d weight = %v, want %v", i, set.Weight, w)
		}
		if set.Reps == nil || *set.Reps != wantReps[i] {
			t.Errorf("working set %d reps = %v, want %d", i, set.Reps, wantReps[i])
		}
	}
}

// TestBuildSessionFixedRepTarget verifies that a blueprint rep target wins
// over the reference reps while weights still carry over.
func TestBuildSessionFixedRepTarget(t *testing.T) {
	tmpl := models.WorkoutTemplate{
		Type: models.WorkoutA,
		Exercises: []models.ExerciseTemplate{
			{Name: "Bench Press", Category: models.CategoryMainLift, DefaultSets: 5, DefaultReps: models.Ptr(5)},
		},
	}
	prev := pastSession(models.WorkoutA, day, models.LoggedExercise{
		Name: "Bench Press",
		Sets: []models.ExerciseSet{completedSet(3, 140)},
	})
	s := BuildSession(tmpl, []models.WorkoutSession{prev}, day)
	working := s.Exercises[0].WorkingSets()
	if *working[0].Reps != 5 || *working[0].Weight != 140 {
		t.Errorf("set 0 = %v×%v, want 5 reps at 140", *working[0].Reps, *working[0].Weight)
	}
	for i := 1; i < 5; i++ {
		if working[i].Weight != nil {
			t.Errorf("set %d weight should be unset beyond the reference sets", i)
		}
		if working[i].Reps == nil || *working[i].Reps != 5 {
			t.Errorf("set %d reps should be the fixed target", i)
		}
	}
}

// TestBuildSessionUsesMostRecentOfSameType verifies reference selection by
// type, completion and start time, and that history is left untouched.
func TestBuildSessionUsesMostRecentOfSameType(t *testing.T) {
	ex := func(w float64) models.LoggedExercise {
		return models.LoggedExercise{Name: "Row", Sets: []models.ExerciseSet{completedSet(8, w)}}
	}
	older := pastSession(models.WorkoutC, day, ex(100))
	newer := pastSession(models.WorkoutC, day.AddDate(0, 0, 7), ex(110))
	otherType := pastSession(models.WorkoutA, day.AddDate(0, 0, 9), ex(200))
	unfinished := models.WorkoutSession{Type: models.WorkoutC, StartTime: day.AddDate(0, 0, 10), Exercises: []models.LoggedExercise{ex(300)}}
	history := []models.WorkoutSession{newer, otherType, older, unfinished}

	tmpl := models.WorkoutTemplate{Type: models.WorkoutC, Exercises: []models.ExerciseTemplate{
		{Name: "Row", Category: models.CategoryCompound, DefaultSets: 1},
		{Name: "Plank", Category: models.CategoryAccessory, DefaultSets: 2, DefaultDurationSeconds: models.Ptr(60)},
	}}
	s := BuildSession(tmpl, history, day.AddDate(0, 0, 12))

	if got := *s.Exercises[0].Sets[0].Weight; got != 110 {
		t.Errorf("weight = %v, want 110 from the newest completed C session", got)
	}
	plank := s.Exercises[1]
	if len(plank.Sets) != 2 || !plank.Sets[0].IsTimeBased() || *plank.Sets[0].DurationSeconds != 60 {
		t.Errorf("plank sets = %+v, want two 60s timed sets", plank.Sets)
	}
	if plank.Sets[0].Weight != nil || plank.Sets[0].Reps != nil {
		t.Error("exercise absent from reference should have no carried values")
	}
	if s.Completed || s.EndTime != nil {
		t.Error("new session must be uncompleted")
	}
	if *history[0].Exercises[0].Sets[0].Weight != 110 || history[0].Exercises[0].Sets[0].Completed != true {
		t.Error("history was modified")
	}
	if s.Exercises[0].Sets[0].ID == history[0].Exercises[0].Sets[0].ID {
		t.Error("pre-filled sets must get fresh identities")
	}
}

// TestAdvanceCycles verifies rotation A→B→C→A.
func TestAdvanceCycles(t *testing.T) {
	cur := models.WorkoutA
	seen := []models.WorkoutType{cur}
	for i := 0; i < 3; i++ {
		cur = Advance(cur)
		seen = append(seen, cur)
	}
	want := []models.WorkoutType{models.WorkoutA, models.WorkoutB, models.WorkoutC, models.WorkoutA}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("rotation = %v, want %v", seen, want)
		}
	}
}

// TestAddSetCopiesLast verifies the add-set behaviour.
func TestAddSetCopiesLast(t *testing.T) {
	ex := models.LoggedExercise{Sets: []models.ExerciseSet{completedSet(8, 60)}}
	s := AddSet(&ex)
	if len(ex.Sets) != 2 || s.Completed || *s.Reps != 8 || *s.Weight != 60 || s.Kind != models.SetWorking {
		t.Errorf("AddSet() = %+v", s)
	}
	*ex.Sets[1].Weight = 65
	if *ex.Sets[0].Weight != 60 {
		t.Error("added set shares weight with the previous set")
	}
}

package models

import (
	"errors"
	"testing"
)

// TestBeatsIsStrict verifies the (weight, reps) lexicographic ordering and
// that equal pairs never beat each other.
func TestBeatsIsStrict(t *testing.T) {
	tests := []struct {
		name string
		x, y PersonalRecord
		want bool
	}{
		{"heavier", PersonalRecord{Weight: 150, Reps: 1}, PersonalRecord{Weight: 145, Reps: 10}, true},
		{"lighter", PersonalRecord{Weight: 140, Reps: 10}, PersonalRecord{Weight: 145, Reps: 1}, false},
		{"same weight more reps", PersonalRecord{Weight: 145, Reps: 6}, PersonalRecord{Weight: 145, Reps: 5}, true},
		{"same weight fewer reps", PersonalRecord{Weight: 145, Reps: 4}, PersonalRecord{Weight: 145, Reps: 5}, false},
		{"tie", PersonalRecord{Weight: 145, Reps: 5}, PersonalRecord{Weight: 145, Reps: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Beats(tt.y); got != tt.want {
				t.Errorf("Beats() = %v, want %v", got, tt.want)
			}
			if tt.want && tt.y.Beats(tt.x) {
				t.Error("Beats() is not asymmetric")
			}
		})
	}
}

// TestNextCyclesWithoutFixedPoint verifies A→B→C→A.
func TestNextCyclesWithoutFixedPoint(t *testing.T) {
	want := map[WorkoutType]WorkoutType{WorkoutA: WorkoutB, WorkoutB: WorkoutC, WorkoutC: WorkoutA}
	for from, to := range want {
		if got := from.Next(); got != to {
			t.Errorf("%s.Next() = %s, want %s", from, got, to)
		}
		if from.Next() == from {
			t.Errorf("%s is a fixed point", from)
		}
	}
}

// TestParseWorkoutType verifies the accepted spellings.
func TestParseWorkoutType(t *testing.T) {
	for in, want := range map[string]WorkoutType{
		"A": WorkoutA, "b": WorkoutB, " Workout C ": WorkoutC, "squat focus": WorkoutB,
	} {
		got, err := ParseWorkoutType(in)
		if err != nil || got != want {
			t.Errorf("ParseWorkoutType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseWorkoutType("D"); err == nil {
		t.Error("expected error for unknown type")
	}
}

// TestParseBodyweight verifies that blank, non-numeric and out-of-range input
// is treated as not provided.
func TestParseBodyweight(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"49.9", nil},
		{"500.1", nil},
		{"NaN", nil},
		{"50", Ptr(50.0)},
		{" 182.5 ", Ptr(182.5)},
		{"500", Ptr(500.0)},
	}
	for _, tt := range tests {
		got := ParseBodyweight(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseBodyweight(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("ParseBodyweight(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

// TestDefaultTemplatesValid verifies the built-in program covers every type
// and passes validation.
func TestDefaultTemplatesValid(t *testing.T) {
	st := NewAppState(DefaultTemplates())
	for _, wt := range AllWorkoutTypes() {
		tmpl, ok := st.Template(wt)
		if !ok {
			t.Fatalf("no default template for %s", wt)
		}
		if err := tmpl.Validate(); err != nil {
			t.Errorf("template %s: %v", wt, err)
		}
		if tmpl.Exercises[0].Category != CategoryMainLift || tmpl.Exercises[0].DefaultSets != 5 {
			t.Errorf("template %s should open with a 5-set main lift", wt)
		}
	}
	if st.NextWorkout != WorkoutA || len(st.History) != 0 || len(st.Records) != 0 {
		t.Error("new state should start at A with empty history and records")
	}
}

// TestTemplateValidateRejects verifies unusable templates are rejected.
func TestTemplateValidateRejects(t *testing.T) {
	bad := []WorkoutTemplate{
		{Type: "Z"},
		{Type: WorkoutA, Exercises: []ExerciseTemplate{{Name: "", Category: CategoryCompound, DefaultSets: 3}}},
		{Type: WorkoutA, Exercises: []ExerciseTemplate{{Name: "Row", Category: CategoryCompound, DefaultSets: 0}}},
		{Type: WorkoutA, Exercises: []ExerciseTemplate{{Name: "Row", Category: "cardio", DefaultSets: 3}}},
		{Type: WorkoutA, Exercises: []ExerciseTemplate{{Name: "Row", Category: CategoryCompound, DefaultSets: 3, DefaultReps: Ptr(-1)}}},
	}
	for i, tmpl := range bad {
		if err := tmpl.Validate(); !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidTemplate", i, err)
		}
	}
}

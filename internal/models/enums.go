package models

import (
	"fmt"
	"strings"
	"time"
)

// WorkoutType identifies one of the three rotating workouts.
type WorkoutType string

const (
	WorkoutA WorkoutType = "A"
	WorkoutB WorkoutType = "B"
	WorkoutC WorkoutType = "C"
)

// AllWorkoutTypes returns the workout types in rotation order.
func AllWorkoutTypes() []WorkoutType {
	return []WorkoutType{WorkoutA, WorkoutB, WorkoutC}
}

// Valid reports whether t is one of the known workout types.
func (t WorkoutType) Valid() bool {
	switch t {
	case WorkoutA, WorkoutB, WorkoutC:
		return true
	}
	return false
}

// Name returns the descriptive name of the workout.
func (t WorkoutType) Name() string {
	switch t {
	case WorkoutA:
		return "Bench Focus"
	case WorkoutB:
		return "Squat Focus"
	case WorkoutC:
		return "OHP + Back"
	}
	return string(t)
}

// ShortName returns e.g. "Workout A".
func (t WorkoutType) ShortName() string {
	return "Workout " + string(t)
}

// FullName returns e.g. "Workout A – Bench Focus".
func (t WorkoutType) FullName() string {
	return t.ShortName() + " – " + t.Name()
}

// Next returns the successor in the A→B→C→A cycle. Unknown types restart
// the cycle at A.
func (t WorkoutType) Next() WorkoutType {
	switch t {
	case WorkoutA:
		return WorkoutB
	case WorkoutB:
		return WorkoutC
	}
	return WorkoutA
}

// ParseWorkoutType accepts "A", "b", "Workout C" and the descriptive names.
func ParseWorkoutType(s string) (WorkoutType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "workout ")
	for _, t := range AllWorkoutTypes() {
		if key == strings.ToLower(string(t)) || key == strings.ToLower(t.Name()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown workout type %q", s)
}

// SetKind distinguishes warm-up sets from working sets.
type SetKind string

const (
	SetWarmup  SetKind = "warmup"
	SetWorking SetKind = "working"
)

// Category classifies an exercise and implies its default rest period.
type Category string

const (
	CategoryMainLift  Category = "main_lift"
	CategoryCompound  Category = "compound"
	CategoryAccessory Category = "accessory"
)

// categoryAliases maps lowercased display names to categories.
var categoryAliases = map[string]Category{
	"main_lift": CategoryMainLift,
	"main lift": CategoryMainLift,
	"mainlift":  CategoryMainLift,
	"compound":  CategoryCompound,
	"accessory": CategoryAccessory,
}

// ParseCategory normalizes a category name such as "Main Lift".
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown exercise category %q", s)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryMainLift, CategoryCompound, CategoryAccessory:
		return true
	}
	return false
}

// DefaultRest is the rest period used when an exercise has no override.
func (c Category) DefaultRest() time.Duration {
	switch c {
	case CategoryMainLift:
		return 150 * time.Second
	case CategoryCompound:
		return 90 * time.Second
	}
	return 60 * time.Second
}

// Rating is a coarse self-assessment of energy or sleep.
type Rating string

const (
	RatingPoor Rating = "poor"
	RatingOK   Rating = "ok"
	RatingGood Rating = "good"
)

// ParseRating accepts "poor", "OK", "Good" etc.
func ParseRating(s string) (Rating, error) {
	switch r := Rating(strings.ToLower(strings.TrimSpace(s))); r {
	case RatingPoor, RatingOK, RatingGood:
		return r, nil
	}
	return "", fmt.Errorf("unknown rating %q", s)
}

// Label is the capitalized display form used in summaries.
func (r Rating) Label() string {
	switch r {
	case RatingPoor:
		return "Poor"
	case RatingOK:
		return "OK"
	case RatingGood:
		return "Good"
	}
	return string(r)
}

// Emoji returns the icon shown next to the rating.
func (r Rating) Emoji() string {
	switch r {
	case RatingPoor:
		return "😓"
	case RatingOK:
		return "😐"
	case RatingGood:
		return "💪"
	}
	return ""
}

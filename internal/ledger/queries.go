package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/records"
	"github.com/claude/ironledger/internal/summary"
	"github.com/google/uuid"
)

// ExerciseEntry is one session's completed working sets for an exercise.
type ExerciseEntry struct {
	SessionID uuid.UUID            `json:"session_id"`
	Date      time.Time            `json:"date"`
	Sets      []models.ExerciseSet `json:"sets"`
}

// Stats are lifetime totals over completed sessions.
type Stats struct {
	TotalWorkouts int     `json:"total_workouts"`
	TotalVolume   float64 `json:"total_volume"`
}

// NextWorkout returns the rotation pointer.
func (s *Store) NextWorkout() models.WorkoutType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.NextWorkout
}

// Active returns a copy of the active session, if any.
func (s *Store) Active() (models.WorkoutSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.WorkoutSession{}, false
	}
	return s.active.Clone(), true
}

// completed must be called with mu held. Sessions are copies, newest first.
func (s *Store) completed(filter *models.WorkoutType) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, w := range s.state.History {
		if !w.Completed || (filter != nil && w.Type != *filter) {
			continue
		}
		out = append(out, w.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

// History returns completed sessions newest first, optionally of one type.
func (s *Store) History(filter *models.WorkoutType) []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed(filter)
}

// Recent returns at most n completed sessions, newest first.
func (s *Store) Recent(n int) []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.completed(nil)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// session must be called with mu held.
func (s *Store) session(id uuid.UUID) (models.WorkoutSession, error) {
	for _, w := range s.state.History {
		if w.ID == id {
			return w, nil
		}
	}
	return models.WorkoutSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// Session returns one completed session by ID.
func (s *Store) Session(id uuid.UUID) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.session(id)
	if err != nil {
		return w, err
	}
	return w.Clone(), nil
}

// Records returns a copy of the PR table.
func (s *Store) Records() map[string]models.PersonalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return records.Clone(s.state.Records)
}

// TopRecords returns up to n records, heaviest first.
func (s *Store) TopRecords(n int) []models.PersonalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return records.Top(s.state.Records, n)
}

// NewRecords returns the records currently held by the given session.
func (s *Store) NewRecords(sessionID uuid.UUID) []models.PersonalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return records.SetBy(s.state.Records, sessionID)
}

// ActiveSet returns a copy of one set of the active session.
func (s *Store) ActiveSet(exerciseID, setID uuid.UUID) (models.ExerciseSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, set, err := s.locate(exerciseID, setID)
	if err != nil {
		return models.ExerciseSet{}, err
	}
	return set.Clone(), nil
}

// IsPR reports whether a set of the active session beats the stored record.
func (s *Store) IsPR(exerciseID, setID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, set, err := s.locate(exerciseID, setID)
	if err != nil {
		return false, err
	}
	return records.IsPR(s.state.Records, *ex, *set), nil
}

// ExerciseHistory returns, newest first, the completed working sets logged
// for the exercise with exactly this name.
func (s *Store) ExerciseHistory(name string) []ExerciseEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ExerciseEntry
	for _, w := range s.completed(nil) {
		ex := w.ExerciseByName(name)
		if ex == nil {
			continue
		}
		out = append(out, ExerciseEntry{
			SessionID: w.ID,
			Date:      w.StartTime,
			Sets:      ex.CompletedWorkingSets(),
		})
	}
	return out
}

// ExerciseNames lists every exercise name found in completed history, sorted.
func (s *Store) ExerciseNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var names []string
	for _, w := range s.state.History {
		if !w.Completed {
			continue
		}
		for _, ex := range w.Exercises {
			if !seen[ex.Name] {
				seen[ex.Name] = true
				names = append(names, ex.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Templates returns copies of all templates in rotation order.
func (s *Store) Templates() []models.WorkoutTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.WorkoutTemplate
	for _, t := range models.AllWorkoutTypes() {
		if tmpl, ok := s.state.Template(t); ok {
			out = append(out, cloneTemplate(tmpl))
		}
	}
	return out
}

// Template returns a copy of the template for t.
func (s *Store) Template(t models.WorkoutType) (models.WorkoutTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl, ok := s.state.Template(t)
	if !ok {
		return models.WorkoutTemplate{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, t)
	}
	return cloneTemplate(tmpl), nil
}

// Summary renders the text export of a completed session.
func (s *Store) Summary(sessionID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	return summary.Render(w, s.state.Records), nil
}

// Stats returns lifetime totals.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st Stats
	for _, w := range s.state.History {
		if w.Completed {
			st.TotalWorkouts++
			st.TotalVolume += w.TotalVolume()
		}
	}
	return st
}

func cloneTemplate(t models.WorkoutTemplate) models.WorkoutTemplate {
	c := t
	c.Exercises = make([]models.ExerciseTemplate, len(t.Exercises))
	for i, e := range t.Exercises {
		if e.DefaultReps != nil {
			e.DefaultReps = models.Ptr(*e.DefaultReps)
		}
		if e.DefaultDurationSeconds != nil {
			e.DefaultDurationSeconds = models.Ptr(*e.DefaultDurationSeconds)
		}
		c.Exercises[i] = e
	}
	return c
}

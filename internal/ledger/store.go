// Package ledger owns the application state: the single active session, the
// completed-session history, the templates, the rotation pointer and the PR
// table. Every operation is serialised by one mutex and no internal
// reference escapes a call.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/progression"
	"github.com/claude/ironledger/internal/records"
	"github.com/claude/ironledger/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrSessionActive    = errors.New("a session is already active")
	ErrNoActiveSession  = errors.New("no active session")
	ErrTemplateNotFound = errors.New("template not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidInput     = errors.New("invalid input")
	// ErrNotPersisted wraps a save failure. The in-memory state is already
	// updated and consistent; calling Save retries the write.
	ErrNotPersisted = errors.New("state not persisted")
)

// Options configures a Store. Zero values pick sensible defaults.
type Options struct {
	Key       string
	Templates func() []models.WorkoutTemplate
	Clock     func() time.Time
	Log       *slog.Logger
}

// Store is the session store. Construct it once with New and share it.
type Store struct {
	kv       storage.KV
	key      string
	defaults func() []models.WorkoutTemplate
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	state  *models.AppState
	active *models.WorkoutSession
}

// New loads persisted state from kv, falling back to defaults when nothing
// usable is stored.
func New(ctx context.Context, kv storage.KV, opts Options) *Store {
	s := &Store{
		kv:       kv,
		key:      opts.Key,
		defaults: opts.Templates,
		now:      opts.Clock,
		log:      opts.Log,
	}
	if s.key == "" {
		s.key = storage.DefaultKey
	}
	if s.defaults == nil {
		s.defaults = models.DefaultTemplates
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	st, loaded := storage.LoadState(ctx, kv, s.key, s.defaults, s.log)
	s.state = st
	s.log.Info("state loaded",
		"persisted", loaded,
		"next_workout", st.NextWorkout,
		"sessions", len(st.History),
		"records", len(st.Records),
	)
	return s
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context) error {
	if err := storage.SaveState(ctx, s.kv, s.key, s.state); err != nil {
		s.log.Error("persisting state failed", "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Save writes the full state again, e.g. to retry after ErrNotPersisted.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

// Start creates the active session for t from its template. Callers must
// discard or complete an existing session first.
func (s *Store) Start(t models.WorkoutType) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return models.WorkoutSession{}, ErrSessionActive
	}
	tmpl, ok := s.state.Template(t)
	if !ok {
		return models.WorkoutSession{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, t)
	}

	session := progression.BuildSession(tmpl, s.state.History, s.now())
	s.active = &session
	s.log.Info("session started", "session_id", session.ID, "type", t, "exercises", len(session.Exercises))
	return session.Clone(), nil
}

// Complete finalises the active session: stamps the end time, records PRs,
// appends it to history, advances the rotation and persists. The active slot
// is cleared even when persisting fails; the error then wraps
// ErrNotPersisted and the returned result is still valid.
func (s *Store) Complete(ctx context.Context, in CompletionInput) (CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return CompletionResult{}, ErrNoActiveSession
	}
	session := *s.active
	session.Energy = in.Energy
	session.Sleep = in.Sleep
	session.Bodyweight = nil
	if in.Bodyweight != nil && models.ValidBodyweight(*in.Bodyweight) {
		session.Bodyweight = models.Ptr(*in.Bodyweight)
	}
	session.Notes = in.Notes

	now := s.now()
	session.Finish(now)

	written := records.Evaluate(s.state.Records, session, now)
	s.state.History = append(s.state.History, session)
	s.state.NextWorkout = progression.Advance(session.Type)
	s.active = nil

	for _, pr := range written {
		s.log.Info("personal record", "exercise", pr.ExerciseName, "weight", pr.Weight, "reps", pr.Reps)
	}
	dur, _ := session.Duration()
	s.log.Info("session completed",
		"session_id", session.ID,
		"type", session.Type,
		"volume", session.TotalVolume(),
		"duration", dur.Round(time.Second).String(),
		"next_workout", s.state.NextWorkout,
	)

	result := CompletionResult{
		Session:     session.Clone(),
		NewRecords:  written,
		NextWorkout: s.state.NextWorkout,
	}
	return result, s.save(ctx)
}

// Discard drops the active session without saving anything.
func (s *Store) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoActiveSession
	}
	s.log.Info("session discarded", "session_id", s.active.ID, "type", s.active.Type)
	s.active = nil
	return nil
}

// SetNextWorkout overrides the rotation pointer and persists. It does not
// require, or affect, an active session.
func (s *Store) SetNextWorkout(ctx context.Context, t models.WorkoutType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: workout type %q", ErrInvalidInput, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.NextWorkout = t
	s.log.Info("rotation overridden", "next_workout", t)
	return s.save(ctx)
}

// UpdateTemplate replaces the template of the same workout type and
// persists. Missing identities are filled in.
func (s *Store) UpdateTemplate(ctx context.Context, tmpl models.WorkoutTemplate) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.TemplateIndex(tmpl.Type)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, tmpl.Type)
	}
	if tmpl.ID == uuid.Nil {
		tmpl.ID = s.state.Templates[i].ID
	}
	s.state.Templates[i] = cloneTemplate(tmpl.WithIDs())
	s.log.Info("template updated", "type", tmpl.Type, "exercises", len(tmpl.Exercises))
	return s.save(ctx)
}

// ResetAllData restores default templates, clears history and records,
// resets the rotation and persists. The active session is not touched.
func (s *Store) ResetAllData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.NewAppState(s.defaults())
	s.log.Warn("all data reset")
	return s.save(ctx)
}

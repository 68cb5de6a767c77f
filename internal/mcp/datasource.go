package mcp

import (
	"context"

	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/models"
	"github.com/google/uuid"
)

// NextWorkout describes the session the rotation would start next.
type NextWorkout struct {
	Type     models.WorkoutType      `json:"type"`
	Name     string                  `json:"name"`
	Template *models.WorkoutTemplate `json:"template,omitempty"`
}

// DataSource abstracts the data layer for MCP tools. Both LocalSource (same
// process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	NextWorkout(ctx context.Context) (NextWorkout, error)
	History(ctx context.Context, filter *models.WorkoutType, limit int) ([]models.WorkoutSession, error)
	ExerciseHistory(ctx context.Context, exercise string) ([]ledger.ExerciseEntry, error)
	TopRecords(ctx context.Context, n int) ([]models.PersonalRecord, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (string, error)
}

// LocalSource serves MCP queries straight from a session store.
type LocalSource struct {
	Store *ledger.Store
}

// Compile-time checks.
var (
	_ DataSource = LocalSource{}
	_ DataSource = (*HTTPClient)(nil)
)

func (l LocalSource) NextWorkout(_ context.Context) (NextWorkout, error) {
	t := l.Store.NextWorkout()
	next := NextWorkout{Type: t, Name: t.FullName()}
	if tmpl, err := l.Store.Template(t); err == nil {
		next.Template = &tmpl
	}
	return next, nil
}

func (l LocalSource) History(_ context.Context, filter *models.WorkoutType, limit int) ([]models.WorkoutSession, error) {
	sessions := l.Store.History(filter)
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (l LocalSource) ExerciseHistory(_ context.Context, exercise string) ([]ledger.ExerciseEntry, error) {
	return l.Store.ExerciseHistory(exercise), nil
}

func (l LocalSource) TopRecords(_ context.Context, n int) ([]models.PersonalRecord, error) {
	return l.Store.TopRecords(n), nil
}

func (l LocalSource) Summary(_ context.Context, sessionID uuid.UUID) (string, error) {
	return l.Store.Summary(sessionID)
}

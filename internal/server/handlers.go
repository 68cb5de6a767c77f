package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/claude/ironledger/internal/ledger"
	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/timer"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stateResponse struct {
	NextWorkout     models.WorkoutType     `json:"next_workout"`
	NextWorkoutName string                 `json:"next_workout_name"`
	Active          *models.WorkoutSession `json:"active_session"`
	Stats           ledger.Stats           `json:"stats"`
	Timer           timer.Snapshot         `json:"timer"`
}

type typeRequest struct {
	Type string `json:"type"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// completeRequest accepts bodyweight as a JSON number or string.
type completeRequest struct {
	Energy     string          `json:"energy"`
	Sleep      string          `json:"sleep"`
	Bodyweight json.RawMessage `json:"bodyweight"`
	Notes      string          `json:"notes"`
}

// setPatchRequest decodes an edit body. Only keys present change the set;
// an explicit null clears the field.
type setPatchRequest struct {
	patch ledger.SetPatch
}

func (p *setPatchRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		var err error
		switch key {
		case "reps":
			p.patch.HasReps = true
			err = json.Unmarshal(value, &p.patch.Reps)
		case "weight":
			p.patch.HasWeight = true
			err = json.Unmarshal(value, &p.patch.Weight)
		case "duration_seconds":
			p.patch.HasDurationSeconds = true
			err = json.Unmarshal(value, &p.patch.DurationSeconds)
		default:
			return fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

type editResponse struct {
	Set  models.ExerciseSet `json:"set"`
	IsPR bool               `json:"is_pr"`
}

type toggleResponse struct {
	Rest  ledger.RestCue `json:"rest"`
	IsPR  bool           `json:"is_pr"`
	Timer timer.Snapshot `json:"timer"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	next := s.store.NextWorkout()
	resp := stateResponse{
		NextWorkout:     next,
		NextWorkoutName: next.FullName(),
		Stats:           s.store.Stats(),
		Timer:           s.rest.Snapshot(),
	}
	if active, ok := s.store.Active(); ok {
		resp.Active = &active
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	active, ok := s.store.Active()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": ledger.ErrNoActiveSession.Error()})
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	t := s.store.NextWorkout()
	if req.Type != "" {
		parsed, err := models.ParseWorkoutType(req.Type)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		t = parsed
	}

	session, err := s.store.Start(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Discard(); err != nil {
		s.writeError(w, err)
		return
	}
	s.rest.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	in := ledger.CompletionInput{
		Bodyweight: parseBodyweight(req.Bodyweight),
		Notes:      strings.TrimSpace(req.Notes),
	}
	var err error
	if in.Energy, err = parseOptionalRating(req.Energy); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "energy: " + err.Error()})
		return
	}
	if in.Sleep, err = parseOptionalRating(req.Sleep); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sleep: " + err.Error()})
		return
	}

	result, err := s.store.Complete(r.Context(), in)
	if err != nil && !errors.Is(err, ledger.ErrNotPersisted) {
		s.writeError(w, err)
		return
	}
	s.rest.Dismiss()
	if err != nil {
		// Finished in memory but not on disk.
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathUUID(w, r, "exerciseID")
	if !ok {
		return
	}
	set, err := s.store.AddSet(exerciseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleEditSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathUUID(w, r, "exerciseID")
	if !ok {
		return
	}
	setID, ok := pathUUID(w, r, "setID")
	if !ok {
		return
	}
	var req setPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.PatchSet(exerciseID, setID, req.patch); err != nil {
		s.writeError(w, err)
		return
	}
	set, err := s.store.ActiveSet(exerciseID, setID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse{Set: set, IsPR: s.isPR(exerciseID, setID)})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathUUID(w, r, "exerciseID")
	if !ok {
		return
	}
	setID, ok := pathUUID(w, r, "setID")
	if !ok {
		return
	}
	cue, err := s.store.ToggleSet(exerciseID, setID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cue.Start {
		s.rest.Start(cue.Duration)
		s.log.Info("rest timer started", "exercise", cue.Exercise, "seconds", cue.Seconds)
	}
	writeJSON(w, http.StatusOK, toggleResponse{Rest: cue, IsPR: s.isPR(exerciseID, setID), Timer: s.rest.Snapshot()})
}

func (s *Server) handleExerciseNotes(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathUUID(w, r, "exerciseID")
	if !ok {
		return
	}
	var req notesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.SetExerciseNotes(exerciseID, req.Notes); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRotation(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := models.ParseWorkoutType(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.SetNextWorkout(r.Context(), t); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"next_workout": string(t)})
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := models.ParseWorkoutType(chi.URLParam(r, "type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var tmpl models.WorkoutTemplate
	if !decodeBody(w, r, &tmpl) {
		return
	}
	tmpl.Type = t
	if err := s.store.UpdateTemplate(r.Context(), tmpl); err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.store.Template(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetAllData(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isPR reports the live PR marker for a set. A failed lookup only hides the
// marker.
func (s *Server) isPR(exerciseID, setID uuid.UUID) bool {
	ok, err := s.store.IsPR(exerciseID, setID)
	if err != nil {
		s.log.Debug("pr check failed", "exercise_id", exerciseID, "set_id", setID, "error", err)
	}
	return ok
}

// parseBodyweight accepts a JSON number or a string. Anything unusable or
// out of range counts as not provided.
func parseBodyweight(raw json.RawMessage) *float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if models.ValidBodyweight(n) {
			return &n
		}
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return models.ParseBodyweight(text)
	}
	return nil
}

func parseOptionalRating(s string) (*models.Rating, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	r, err := models.ParseRating(s)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrSessionNotFound),
		errors.Is(err, ledger.ErrTemplateNotFound),
		errors.Is(err, ledger.ErrExerciseNotFound),
		errors.Is(err, ledger.ErrSetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrSessionActive),
		errors.Is(err, ledger.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, text)
}

// seconds converts a JSON seconds field, falling back to def when unset.
func seconds(v *int, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	return time.Duration(*v) * time.Second
}
